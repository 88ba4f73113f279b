package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/document"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a résumé and print the composite report",
	Long: `Analyze a résumé (plain text, Markdown, PDF or DOCX), optionally against a job posting URL,
and print the composite report as JSON. With --verbose every intermediate record is printed to stderr.`,
	RunE: runAnalyze,
}

var (
	analyzeResume  string
	analyzeJobURL  string
	analyzeOut     string
	analyzeVerbose bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to the résumé file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeJobURL, "job-url", "j", "", "Job posting URL")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Write the report to this file instead of stdout")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print intermediate records")

	_ = analyzeCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	resumeText, err := readResume(analyzeResume)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	components, err := pipeline.NewFromConfig(ctx, cfg, pipeline.Options{}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize analyzer: %w", err)
	}
	defer func() {
		if err := components.Close(); err != nil {
			log.Warn("failed to close LLM client", zap.Error(err))
		}
	}()

	res := components.Orchestrator.Run(ctx, resumeText, analyzeJobURL)
	log.Info("analysis complete",
		zap.String("run_id", res.RunID),
		zap.String("github_user", res.Username),
		zap.Int("repositories", len(res.Reports)),
		zap.Duration("duration", res.Duration),
	)

	if analyzeVerbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		if analyzeJobURL != "" {
			printer.PrintJobRequirements(res.JobRequirements)
		}
		printer.PrintCandidateProfile(&res.Profile)
		printer.PrintRepositoryReports(res.Reports)
		printer.PrintCompositeReport(&res.Report)
	}

	if analyzeOut == "" {
		return writeJSON(cmd.OutOrStdout(), res.Report)
	}

	f, err := os.Create(analyzeOut)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := writeJSON(f, res.Report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", analyzeOut)
	return nil
}

// readResume reads a résumé file and extracts its text according to its detected type.
func readResume(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read resume file: %w", err)
	}
	text, err := document.ExtractText(document.DetectType(path, data), data)
	if err != nil {
		return "", fmt.Errorf("failed to read resume file: %w", err)
	}
	return text, nil
}
