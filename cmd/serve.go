package cmd

import (
	"context"
	"fmt"

	"skill_extractor_backend/internal/app"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	addServeFlags(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("migrate", false, "Run database migrations on start even in release mode")
	cmd.Flags().Bool("migrate-only", false, "Run database migrations and exit")
}

func runServe(cmd *cobra.Command) error {
	cfg, dir, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	migrate, _ := cmd.Flags().GetBool("migrate")
	migrateOnly, _ := cmd.Flags().GetBool("migrate-only")
	cfg.ForceMigrate = migrate || migrateOnly
	cfg.MigrateOnly = migrateOnly

	application, err := app.NewApp(cfg, dir)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}

	// 迁移完成后直接退出
	if migrateOnly {
		application.Close(context.Background())
		return nil
	}
	return application.Run()
}
