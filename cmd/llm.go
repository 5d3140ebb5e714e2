package cmd

import (
	"context"
	"fmt"
	"time"

	"skill_extractor_backend/internal/llm"
	"skill_extractor_backend/pkg/logger"

	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the configured text-generation provider",
}

var llmPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Send a short prompt to the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := logger.InitLogger(&cfg.Log, cfg.Server.Mode); err != nil {
			return err
		}
		defer logger.Log.Sync()

		timeout, _ := cmd.Flags().GetDuration("timeout")
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		provider, err := llm.NewProvider(ctx, cfg.AI)
		if err != nil {
			return err
		}

		req := llm.UserPrompt("You are a connectivity check. Reply with the single word: pong", "ping")
		req.MaxTokens = 16

		start := time.Now()
		resp, err := provider.Generate(llm.WithPurpose(ctx, "ping"), req)
		if err != nil {
			return fmt.Errorf("%s: %w", provider.ModelID(), err)
		}

		fmt.Printf("Provider: %s\n", cfg.AI.Provider)
		fmt.Printf("Model:    %s\n", resp.Model)
		fmt.Printf("Latency:  %s\n", time.Since(start).Round(time.Millisecond))
		fmt.Printf("Tokens:   in=%d out=%d\n", resp.Usage.InputTokens, resp.Usage.OutputTokens)
		fmt.Printf("Reply:    %s\n", resp.Content)
		return nil
	},
}

func init() {
	llmPingCmd.Flags().Duration("timeout", 30*time.Second, "Overall deadline for the check")
	llmCmd.AddCommand(llmPingCmd)
}
