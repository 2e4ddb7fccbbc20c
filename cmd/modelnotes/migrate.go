package main

import (
	"model-notes-be/pkg/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// The root command migrates before every subcommand; migrate only reports.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Bring the note database schema up to date",
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := database.SchemaVersion(cmd.Context(), conn)
		if err != nil {
			return err
		}
		color.Green("Schema at version %d", version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
