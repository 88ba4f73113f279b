package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/github"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/repoanalysis"
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List or analyze a GitHub user's most recently updated repositories",
	Long: `List the most recently updated repositories of a GitHub user. With --analyze each selected
repository is analyzed and the reports are printed as JSON.`,
	RunE: runRepos,
}

var (
	reposUser    string
	reposAnalyze bool
)

// repoSummary is one line of the repository listing.
type repoSummary struct {
	Name      string `json:"name"`
	UpdatedAt string `json:"updated_at"`
	Language  string `json:"language,omitempty"`
	URL       string `json:"html_url,omitempty"`
}

func init() {
	reposCmd.Flags().StringVarP(&reposUser, "user", "u", "", "GitHub username (required)")
	reposCmd.Flags().BoolVar(&reposAnalyze, "analyze", false, "Analyze the selected repositories")
	_ = reposCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(reposCmd)
}

func runRepos(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if !reposAnalyze {
		client := github.NewClient(github.Options{
			BaseURL:               cfg.GithubAPIURL,
			Token:                 cfg.GithubToken,
			Timeout:               cfg.HTTPTimeout,
			MaxListingConcurrency: cfg.MaxListingConcurrency,
		}, log)

		selected := repoanalysis.SelectTopRepos(client.ListRepos(ctx, reposUser), cfg.MaxRepos)
		summaries := make([]repoSummary, 0, len(selected))
		for _, r := range selected {
			summaries = append(summaries, repoSummary{Name: r.Name, UpdatedAt: r.UpdatedAt, Language: r.Language, URL: r.HTMLURL})
		}
		return writeJSON(cmd.OutOrStdout(), summaries)
	}

	components, err := pipeline.NewFromConfig(ctx, cfg, pipeline.Options{}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize analyzer: %w", err)
	}
	defer func() {
		if err := components.Close(); err != nil {
			log.Warn("failed to close LLM client", zap.Error(err))
		}
	}()

	reports := components.Repos.AnalyzeUser(ctx, reposUser)
	observability.NewPrinter(cmd.ErrOrStderr()).PrintRepositoryReports(reports)
	return writeJSON(cmd.OutOrStdout(), reports)
}
