package commands

import (
	"github.com/quochao170402/ecommerce-aws/webshop-service/configs"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed-roles",
	Short: "Migrate the schema and seed the configured roles",
	Long: `Migrate the schema and insert the configured roles if the roles table
is empty. Existing rows are never touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := configs.SetupDatabase(cfg)
		if err != nil {
			return err
		}
		if err := configs.InitDatabase(cmd.Context(), db, configs.NewRoleRegistry(db, cfg, logger)); err != nil {
			return err
		}
		logger.Info("roles seeded", "roles", cfg.Roles.Names)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
