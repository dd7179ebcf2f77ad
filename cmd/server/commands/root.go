package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/quochao170402/ecommerce-aws/webshop-service/configs"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "webshop",
	Short: "Webshop service - accounts, roles and orders",
	Long: `Webshop service exposes signup, login, password reset and order
management over HTTP.

Commands:
  serve       - Run the HTTP API
  worker      - Consume queued mail tasks and deliver them
  seed-roles  - Migrate the schema and seed the configured roles`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Optional yaml config file; environment variables override it")
}

func loadConfig() (*configs.Config, *slog.Logger, error) {
	cfg, err := configs.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	logger := configs.NewLogger(cfg.App.AppEnv, os.Stdout)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
