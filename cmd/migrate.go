package cmd

import (
	"fmt"

	"agentedigitalapi/config"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := setup(); err != nil {
			return err
		}
		if err := config.AutoMigrate(config.DB); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "schema migrated")
		return err
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
