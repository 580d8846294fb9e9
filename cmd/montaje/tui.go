package main

import (
	"github.com/spf13/cobra"

	"github.com/ivalero/montaje/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive catalogue browser",
	Long: `Launch the interactive terminal browser over products and kits.

The browser provides:
  - Scrollable product and kit lists (tab to switch)
  - Live search
  - Detail view with sub-parts and kit contents
  - Copy rows as JSON or YAML
  - Delete with confirmation
  - Automatic refresh when the database changes on disk

Key bindings:
  j/k, ↑/↓    Navigate list
  tab         Switch products/kits
  enter       View details
  c           Copy selected as JSON
  C / alt+c   Copy all visible as JSON / YAML
  /           Search
  D           Delete (with confirmation)
  r           Refresh from database
  ?           Show help
  q           Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(getConfig(), getStore())
}
