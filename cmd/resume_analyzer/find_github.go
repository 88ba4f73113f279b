package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/pipeline"
)

var findGithubCmd = &cobra.Command{
	Use:   "find-github",
	Short: "Find the GitHub username mentioned in a résumé",
	RunE:  runFindGithub,
}

var findGithubResume string

func init() {
	findGithubCmd.Flags().StringVarP(&findGithubResume, "resume", "r", "", "Path to the résumé file (required)")
	_ = findGithubCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(findGithubCmd)
}

func runFindGithub(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	resumeText, err := readResume(findGithubResume)
	if err != nil {
		return err
	}

	components, err := pipeline.NewFromConfig(cmd.Context(), cfg, pipeline.Options{}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize analyzer: %w", err)
	}
	defer func() {
		if err := components.Close(); err != nil {
			log.Warn("failed to close LLM client", zap.Error(err))
		}
	}()

	username, ok := components.Finder.FindUsername(cmd.Context(), resumeText)
	if !ok {
		return fmt.Errorf("no GitHub username found in %s", findGithubResume)
	}
	fmt.Fprintln(cmd.OutOrStdout(), username)
	return nil
}
