package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// CatalogueStatus is the JSON shape of the status command.
type CatalogueStatus struct {
	Database     string `json:"database"`
	DatabaseSize string `json:"database_size"`
	Products     int    `json:"products"`
	SubParts     int    `json:"sub_parts"`
	Kits         int    `json:"kits"`
	KitItems     int    `json:"kit_items"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Output catalogue counts as JSON",
	Long: `Output catalogue counts and database size as JSON.

Suitable for scripting and for health checks:

  montaje status | jq .products`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats, err := getStore().CountStats(ctx)
	if err != nil {
		return err
	}

	status := CatalogueStatus{
		Database: getStore().Path(),
		Products: stats.Products,
		SubParts: stats.SubParts,
		Kits:     stats.Kits,
		KitItems: stats.KitItems,
	}

	if info, err := os.Stat(status.Database); err == nil {
		status.DatabaseSize = humanize.Bytes(uint64(info.Size()))
	}

	encoder := json.NewEncoder(os.Stdout)
	return encoder.Encode(status)
}
