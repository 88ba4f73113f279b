package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
)

var jobRequirementsCmd = &cobra.Command{
	Use:   "job-requirements",
	Short: "Extract the requirements section of a job posting",
	RunE:  runJobRequirements,
}

var jobRequirementsURL string

func init() {
	jobRequirementsCmd.Flags().StringVarP(&jobRequirementsURL, "url", "u", "", "Job posting URL (required)")
	_ = jobRequirementsCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(jobRequirementsCmd)
}

func runJobRequirements(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	components, err := pipeline.NewFromConfig(cmd.Context(), cfg, pipeline.Options{}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize analyzer: %w", err)
	}
	defer func() {
		if err := components.Close(); err != nil {
			log.Warn("failed to close LLM client", zap.Error(err))
		}
	}()

	requirements := components.Jobs.ExtractRequirements(cmd.Context(), jobRequirementsURL)
	if requirements == "" {
		return fmt.Errorf("no requirements extracted from %s", jobRequirementsURL)
	}
	observability.NewPrinter(cmd.ErrOrStderr()).PrintJobRequirements(requirements)
	fmt.Fprintln(cmd.OutOrStdout(), requirements)
	return nil
}
