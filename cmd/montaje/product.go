package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivalero/montaje/internal/model"
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage the product catalogue",
}

var productAddOpts struct {
	code        string
	description string
	department  string
	workerType  int
	minutes     float64
	location    string
	parts       []string
	update      bool
}

var productAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a product to the catalogue",
	Long: `Add a product to the catalogue.

A simple product carries its own assembly minutes and worker type. A
composite product is declared through --part entries instead: its minutes
become the sum of the parts and its worker type the lowest among them.

Examples:
  # Simple product
  montaje product add --code PCB-100 --description "Main control board" \
    --department electronics --minutes 40 --worker-type 2

  # Composite product built from sub-parts (desc:minutes:worker-type)
  montaje product add --code ENC-10 --description "Enclosure" \
    --department mechanics \
    --part "Cut panels:25:1" --part "Weld frame:35:2"

  # Overwrite an existing product
  montaje product add --code PCB-100 --description "Main board rev B" \
    --department electronics --minutes 45 --worker-type 2 --update`,
	RunE: runProductAdd,
}

var productListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List products, optionally filtered by code or description",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProductList,
}

var productShowCmd = &cobra.Command{
	Use:   "show <code>",
	Short: "Show a product as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductShow,
}

var productRmCmd = &cobra.Command{
	Use:   "rm <code>",
	Short: "Remove a product from the catalogue",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductRm,
}

func init() {
	rootCmd.AddCommand(productCmd)
	productCmd.AddCommand(productAddCmd, productListCmd, productShowCmd, productRmCmd)

	productAddCmd.Flags().StringVar(&productAddOpts.code, "code", "",
		"Product code (required)")
	productAddCmd.Flags().StringVar(&productAddOpts.description, "description", "",
		"Product description (required)")
	productAddCmd.Flags().StringVar(&productAddOpts.department, "department", "",
		"Department (electronics, mechanics, assembly)")
	productAddCmd.Flags().IntVar(&productAddOpts.workerType, "worker-type", 1,
		"Worker type required (1-3)")
	productAddCmd.Flags().Float64Var(&productAddOpts.minutes, "minutes", 0,
		"Optimal assembly minutes (ignored with --part)")
	productAddCmd.Flags().StringVar(&productAddOpts.location, "location", "",
		"Storage location")
	productAddCmd.Flags().StringArrayVar(&productAddOpts.parts, "part", nil,
		"Sub-part as description:minutes:worker-type (repeatable)")
	productAddCmd.Flags().BoolVar(&productAddOpts.update, "update", false,
		"Overwrite the product if the code already exists")

	_ = productAddCmd.MarkFlagRequired("code")
	_ = productAddCmd.MarkFlagRequired("description")
	_ = productAddCmd.MarkFlagRequired("department")
}

func runProductAdd(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dept, err := model.ParseDepartment(productAddOpts.department)
	if err != nil {
		return err
	}

	p := &model.Product{
		Code:           strings.TrimSpace(productAddOpts.code),
		Description:    strings.TrimSpace(productAddOpts.description),
		Department:     dept,
		WorkerType:     productAddOpts.workerType,
		Location:       productAddOpts.location,
		OptimalMinutes: productAddOpts.minutes,
	}

	for _, spec := range productAddOpts.parts {
		part, err := parsePartSpec(spec)
		if err != nil {
			return err
		}
		p.Parts = append(p.Parts, part)
	}
	p.HasParts = len(p.Parts) > 0
	p.Normalize()

	if productAddOpts.update {
		err = getStore().UpdateProduct(ctx, p.Code, p)
	} else {
		err = getStore().AddProduct(ctx, p)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Product %s saved (%s, %.2f min, T%d)\n",
		p.Code, p.Department.Label(), p.OptimalMinutes, p.WorkerType)
	return nil
}

// parsePartSpec parses "description:minutes:worker-type". The description
// may itself contain colons, so the last two fields win.
func parsePartSpec(spec string) (model.SubPart, error) {
	fields := strings.Split(spec, ":")
	if len(fields) < 3 {
		return model.SubPart{}, fmt.Errorf("invalid part %q, want description:minutes:worker-type", spec)
	}

	desc := strings.Join(fields[:len(fields)-2], ":")
	minutes, err := strconv.ParseFloat(fields[len(fields)-2], 64)
	if err != nil {
		return model.SubPart{}, fmt.Errorf("invalid part minutes in %q: %w", spec, err)
	}
	workerType, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return model.SubPart{}, fmt.Errorf("invalid part worker type in %q: %w", spec, err)
	}

	return model.SubPart{
		Description: strings.TrimSpace(desc),
		Minutes:     minutes,
		WorkerType:  workerType,
	}, nil
}

func runProductList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	products, err := getStore().SearchProducts(ctx, query)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		logger.Debug("no products to list", "query", query)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tDEPARTMENT\tTYPE\tMINUTES\tPARTS\tDESCRIPTION")
	for _, p := range products {
		parts := "-"
		if p.HasParts {
			parts = strconv.Itoa(len(p.Parts))
		}
		fmt.Fprintf(w, "%s\t%s\tT%d\t%.2f\t%s\t%s\n",
			p.Code, p.Department.Label(), p.WorkerType, p.OptimalMinutes, parts, p.Description)
	}
	return w.Flush()
}

func runProductShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	p, err := getStore().GetProduct(ctx, args[0])
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(p)
}

func runProductRm(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := getStore().DeleteProduct(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Product %s removed\n", args[0])
	return nil
}
