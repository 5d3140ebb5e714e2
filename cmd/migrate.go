package cmd

import (
	"context"
	"fmt"

	"skill_extractor_backend/internal/app"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, dir, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg.ForceMigrate = true
		cfg.MigrateOnly = true

		application, err := app.NewApp(cfg, dir)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		application.Close(context.Background())
		fmt.Println("Database migration completed.")
		return nil
	},
}
