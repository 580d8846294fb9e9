package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup <dest>",
	Short: "Copy the catalogue database to a file",
	Long: `Copy the catalogue database to a file.

The database is checkpointed first so the copy is self-contained.

Example:
  montaje backup ~/backups/montaje-$(date +%F).db`,
	Args: cobra.ExactArgs(1),
	RunE: runBackup,
}

var restoreOpts struct {
	force bool
}

var restoreCmd = &cobra.Command{
	Use:   "restore <src>",
	Short: "Replace the catalogue database with a backup",
	Long: `Replace the catalogue database with a backup file.

The current database is overwritten. Requires --force.`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(backupCmd, restoreCmd)

	restoreCmd.Flags().BoolVar(&restoreOpts.force, "force", false,
		"Overwrite the current database")
}

func runBackup(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dest := args[0]
	if err := getStore().Backup(ctx, dest); err != nil {
		return err
	}

	fmt.Printf("Backup written to %s\n", dest)
	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	src := args[0]
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("cannot read backup: %w", err)
	}

	if !restoreOpts.force {
		return fmt.Errorf("restore overwrites the current database; re-run with --force")
	}

	if err := getStore().Restore(src); err != nil {
		return err
	}

	fmt.Printf("Database restored from %s\n", src)
	return nil
}
