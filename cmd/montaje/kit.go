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

var kitCmd = &cobra.Command{
	Use:   "kit",
	Short: "Manage the kit catalogue",
}

var kitAddOpts struct {
	code        string
	description string
	items       []string
	update      bool
}

var kitAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a kit to the catalogue",
	Long: `Add a kit to the catalogue.

A kit groups catalogue products with quantities. Every product referenced
must already exist.

Examples:
  montaje kit add --code KIT-01 --description "Base station" \
    --item PCB-100:1 --item ENC-10:1 --item PSU-20:2

  # Overwrite an existing kit
  montaje kit add --code KIT-01 --description "Base station rev B" \
    --item PCB-100:1 --item ENC-11:1 --update`,
	RunE: runKitAdd,
}

var kitListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List kits, optionally filtered by code or description",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runKitList,
}

var kitShowCmd = &cobra.Command{
	Use:   "show <code>",
	Short: "Show a kit as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runKitShow,
}

var kitRmCmd = &cobra.Command{
	Use:   "rm <code>",
	Short: "Remove a kit from the catalogue",
	Args:  cobra.ExactArgs(1),
	RunE:  runKitRm,
}

func init() {
	rootCmd.AddCommand(kitCmd)
	kitCmd.AddCommand(kitAddCmd, kitListCmd, kitShowCmd, kitRmCmd)

	kitAddCmd.Flags().StringVar(&kitAddOpts.code, "code", "",
		"Kit code (required)")
	kitAddCmd.Flags().StringVar(&kitAddOpts.description, "description", "",
		"Kit description (required)")
	kitAddCmd.Flags().StringArrayVar(&kitAddOpts.items, "item", nil,
		"Kit line as product-code:quantity (repeatable)")
	kitAddCmd.Flags().BoolVar(&kitAddOpts.update, "update", false,
		"Overwrite the kit if the code already exists")

	_ = kitAddCmd.MarkFlagRequired("code")
	_ = kitAddCmd.MarkFlagRequired("description")
	_ = kitAddCmd.MarkFlagRequired("item")
}

func runKitAdd(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	k := &model.Kit{
		Code:        strings.TrimSpace(kitAddOpts.code),
		Description: strings.TrimSpace(kitAddOpts.description),
	}

	for _, spec := range kitAddOpts.items {
		code, qty, err := parseItemSpec(spec)
		if err != nil {
			return err
		}
		k.AddItem(code, qty)
	}

	var err error
	if kitAddOpts.update {
		err = getStore().UpdateKit(ctx, k.Code, k)
	} else {
		err = getStore().AddKit(ctx, k)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Kit %s saved (%d lines)\n", k.Code, len(k.Items))
	return nil
}

// parseItemSpec parses "product-code:quantity".
func parseItemSpec(spec string) (string, int, error) {
	idx := strings.LastIndex(spec, ":")
	if idx <= 0 {
		return "", 0, fmt.Errorf("invalid item %q, want product-code:quantity", spec)
	}

	code := strings.TrimSpace(spec[:idx])
	qty, err := strconv.Atoi(spec[idx+1:])
	if err != nil {
		return "", 0, fmt.Errorf("invalid item quantity in %q: %w", spec, err)
	}
	return code, qty, nil
}

func runKitList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	kits, err := getStore().SearchKits(ctx, query)
	if err != nil {
		return err
	}
	if len(kits) == 0 {
		logger.Debug("no kits to list", "query", query)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tDESCRIPTION")
	for _, k := range kits {
		fmt.Fprintf(w, "%s\t%s\n", k.Code, k.Description)
	}
	return w.Flush()
}

func runKitShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	k, err := getStore().GetKit(ctx, args[0])
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(k)
}

func runKitRm(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := getStore().DeleteKit(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Kit %s removed\n", args[0])
	return nil
}
