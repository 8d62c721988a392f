package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"resume-maker/internal/generation"
)

//nolint:gochecknoglobals // Cobra boilerplate
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the prompt that would be sent to the model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		req, err := loadRequest()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), generation.BuildPrompt(req))
		return err
	},
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(promptCmd)
}
