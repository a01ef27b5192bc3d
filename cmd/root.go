package cmd

import (
	"fmt"

	"agentedigitalapi/config"
	"agentedigitalapi/utils"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "agentedigital",
	Short: "Compliance and incident management API",
	Long: `agentedigitalapi serves the compliance tracking, incident management and
ANCI reporting API. Without a subcommand it starts the HTTP server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var logLevel string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL")
}

// setup loads the configuration, initializes the logger and connects the database.
func setup() error {
	if err := config.LoadConfig(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		config.Cfg.LogLevel = logLevel
	}
	utils.InitLoggerWithConfig(
		config.Cfg.LogFile,
		config.Cfg.LogLevel,
		config.Cfg.LogMaxSize,
		config.Cfg.LogMaxBackups,
		config.Cfg.LogMaxAge,
		config.Cfg.LogCompress,
	)
	if err := config.ConnectDB(); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if config.DB == nil {
		return fmt.Errorf("database is nil after ConnectDB")
	}
	return nil
}
