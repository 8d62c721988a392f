package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"resume-maker/internal/bootstrap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var healthTimeout time.Duration

//nolint:gochecknoglobals // Cobra boilerplate
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the model server is reachable and the model is installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := loadConfig(cmd)
		client := bootstrap.BuildGenerator(cfg)

		ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
		defer cancel()
		ok := client.CheckHealth(ctx)
		if err := printJSON(cmd, map[string]any{
			"baseUrl":   cfg.OllamaBaseURL,
			"model":     cfg.OllamaModel,
			"connected": ok,
		}); err != nil {
			return err
		}
		if !ok {
			return errors.Errorf("model %s not available at %s", cfg.OllamaModel, cfg.OllamaBaseURL)
		}
		return nil
	},
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().String("model", "", "Override OLLAMA_MODEL")
	healthCmd.Flags().DurationVar(&healthTimeout, "timeout", 10*time.Second, "Probe timeout")
}
