package cmd

import (
	"fmt"

	"agentedigitalapi/bootstrap"
	"agentedigitalapi/config"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the YAML catalog into the database, overwriting existing rows",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := setup(); err != nil {
			return err
		}
		if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
			config.Cfg.SeedDir = dir
		}
		if err := config.AutoMigrate(config.DB); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		if err := bootstrap.Seed(); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "catalog seeded from %s\n", config.Cfg.SeedDir)
		return err
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().String("dir", "", "Seed directory (defaults to SEED_DIR)")
}
