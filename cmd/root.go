package cmd

import (
	"fmt"

	"skill_extractor_backend/internal/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skill-extractor",
	Short: "Skill extraction and proficiency quiz server",
	Long:  "Extracts programming skills from uploaded source code and measures proficiency with generated quizzes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "configs", "Directory containing config.yaml")
	addServeFlags(rootCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(llmCmd)
}

// loadConfig reads config.yaml from the --config directory.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	dir, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, "", fmt.Errorf("load config from %s: %w", dir, err)
	}
	return cfg, dir, nil
}
