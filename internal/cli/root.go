package cli

import (
	"fmt"

	"carmod-backend/internal/config"
	"carmod-backend/internal/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	cfg         *config.Config
	databaseURL string
	port        string
	version     = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "carmod",
	Short: "Car listing moderation API",
	Long: `carmod serves the admin API for moderating car-sale listings:
listing CRUD, approve/reject, and the audit trail of admin actions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if databaseURL != "" {
			cfg.DatabaseURL = databaseURL
		}
		if port != "" {
			cfg.Port = port
		}
		logger.Setup(cfg.Env, cfg.LogLevel)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "carmod %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "SQLite file path or postgres:// URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&port, "port", "", "HTTP port (overrides PORT)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}

func SetVersion(v string) {
	version = v
}

func Execute() error {
	return rootCmd.Execute()
}

func Root() *cobra.Command {
	return rootCmd
}
