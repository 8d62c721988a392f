package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"resume-maker/internal/bootstrap"
	"resume-maker/internal/generation"
)

//nolint:gochecknoglobals // Cobra boilerplate
var fallbackOnly bool

//nolint:gochecknoglobals // Cobra boilerplate
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate resume sections for a request",
	Long: `Generate runs the same client the API uses: retries with backoff,
tolerant JSON parsing and the deterministic fallback.

Example:
  resumectl generate -i request.json --model llama3
  resumectl generate -i request.json --fallback`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().String("model", "", "Override OLLAMA_MODEL")
	generateCmd.Flags().Bool("mock", false, "Use mock mode instead of calling the model")
	generateCmd.Flags().BoolVar(&fallbackOnly, "fallback", false, "Print the deterministic fallback without calling the model")
}

type generateOutput struct {
	Source   generation.Source            `json:"source"`
	Attempts int                          `json:"attempts"`
	Elapsed  string                       `json:"elapsed"`
	Error    string                       `json:"error,omitempty"`
	Sections generation.GeneratedSections `json:"generatedSections"`
}

func runGenerate(cmd *cobra.Command, _ []string) (err error) {
	req, err := loadRequest()
	if err != nil {
		return err
	}
	if fallbackOnly {
		err = printJSON(cmd, generateOutput{Source: generation.SourceFallback, Sections: generation.SynthesizeFallback(req)})
		return err
	}

	client := bootstrap.BuildGenerator(loadConfig(cmd))
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	out := client.Generate(ctx, req)
	result := generateOutput{
		Source:   out.Source,
		Attempts: out.Attempts,
		Elapsed:  time.Since(start).Round(time.Millisecond).String(),
		Sections: out.Sections,
	}
	if out.Err != nil {
		result.Error = out.Err.Error()
	}
	err = printJSON(cmd, result)
	return err
}
