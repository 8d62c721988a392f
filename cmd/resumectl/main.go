package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"resume-maker/internal/generation"
	"resume-maker/internal/shared/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var inputFile string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "resumectl",
	Short: "Inspect prompts and run resume generation from the command line",
	Long: `resumectl drives the generation pipeline outside the HTTP API.

Input is a JSON file with skills, experienceHistory, jobDescription and
templateType, the same shape accepted by POST /resumes.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().StringVarP(&inputFile, "input", "i", "", "Path to request JSON (stdin when empty)")
}

type requestFile struct {
	Skills            []string                     `json:"skills"`
	ExperienceHistory []generation.ExperienceEntry `json:"experienceHistory"`
	JobDescription    string                       `json:"jobDescription"`
	TemplateType      string                       `json:"templateType"`
}

func loadRequest() (req generation.Request, err error) {
	var raw []byte
	if strings.TrimSpace(inputFile) == "" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(inputFile)
	}
	if err != nil {
		err = errors.Wrap(err, "read request")
		return req, err
	}

	var in requestFile
	if err = json.Unmarshal(raw, &in); err != nil {
		err = errors.Wrap(err, "decode request")
		return req, err
	}
	tpl := generation.TemplateType(strings.TrimSpace(in.TemplateType))
	if tpl == "" {
		tpl = generation.TemplateFresher
	}
	if !tpl.Valid() {
		err = errors.Errorf("templateType %q must be one of fresher, mid, senior", in.TemplateType)
		return req, err
	}
	if len(in.Skills) == 0 {
		err = errors.New("at least one skill is required")
		return req, err
	}

	req = generation.Request{
		Skills:            in.Skills,
		ExperienceHistory: in.ExperienceHistory,
		JobDescription:    in.JobDescription,
		TemplateType:      tpl,
	}
	return req, err
}

func loadConfig(cmd *cobra.Command) config.Config {
	cfg := config.Load()
	if cmd.Flags().Changed("model") {
		cfg.OllamaModel, _ = cmd.Flags().GetString("model")
	}
	if cmd.Flags().Changed("mock") {
		cfg.AIMockMode, _ = cmd.Flags().GetBool("mock")
	}
	return cfg
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "write output")
}
