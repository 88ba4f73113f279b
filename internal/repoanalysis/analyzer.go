// Package repoanalysis turns a user's most recently updated repositories into
// GithubAnalysisReports: fetch sources, pack them into bounded chunks, analyze each
// chunk, merge partial reports.
package repoanalysis

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-analyzer/internal/extract"
	"github.com/jonathan/resume-analyzer/internal/github"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/logger"
	"github.com/jonathan/resume-analyzer/internal/prompts"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// RepoSource is the read side of the code-hosting API.
type RepoSource interface {
	ListRepos(ctx context.Context, user string) []github.Repo
	ListFiles(ctx context.Context, owner, repo string) []string
	FetchFile(ctx context.Context, owner, repo, path string) (string, bool)
}

// Options tunes an Analyzer. Zero values use the defaults.
type Options struct {
	MaxRepos      int
	MaxChunkBytes int
}

// Analyzer produces per-repository reports.
type Analyzer struct {
	source RepoSource
	chunks *extract.Extractor
	merges *extract.Extractor
	opts   Options
	log    *zap.Logger
}

// New returns an Analyzer. Chunks are analyzed at the standard tier and partial reports
// merged at the advanced tier.
func New(source RepoSource, ext *extract.Extractor, opts Options, log *zap.Logger) *Analyzer {
	if opts.MaxRepos <= 0 {
		opts.MaxRepos = DefaultMaxRepos
	}
	if opts.MaxChunkBytes <= 0 {
		opts.MaxChunkBytes = DefaultMaxChunkBytes
	}
	return &Analyzer{
		source: source,
		chunks: ext.WithTier(llm.TierStandard),
		merges: ext.WithTier(llm.TierAdvanced),
		opts:   opts,
		log:    logger.OrNop(log).Named("repoanalysis"),
	}
}

// AnalyzeUser analyzes the user's top repositories concurrently. Repositories without
// analyzable content are left out.
func (a *Analyzer) AnalyzeUser(ctx context.Context, user string) []types.GithubAnalysisReport {
	top := SelectTopRepos(a.source.ListRepos(ctx, user), a.opts.MaxRepos)
	a.log.Info("analyzing repositories", zap.String("user", user), zap.Int("count", len(top)))

	reports := make([]types.GithubAnalysisReport, len(top))
	present := make([]bool, len(top))

	var g errgroup.Group
	for i, repo := range top {
		g.Go(func() error {
			reports[i], present[i] = a.AnalyzeRepository(ctx, repo)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]types.GithubAnalysisReport, 0, len(top))
	for i, ok := range present {
		if ok {
			out = append(out, reports[i])
		}
	}
	return out
}

// AnalyzeRepository analyzes one repository. It reports false when the repository has no
// files, or none that survive filtering, fetching and chunking.
func (a *Analyzer) AnalyzeRepository(ctx context.Context, repo github.Repo) (types.GithubAnalysisReport, bool) {
	owner := repo.OwnerLogin()
	log := a.log.With(zap.String("repo", owner+"/"+repo.Name))

	all := a.source.ListFiles(ctx, owner, repo.Name)
	if len(all) == 0 {
		log.Info("no files found, skipping")
		return types.GithubAnalysisReport{}, false
	}

	var paths []string
	for _, p := range all {
		if IsSourceFile(p) {
			paths = append(paths, p)
		}
	}

	contents := make([]string, len(paths))
	var g errgroup.Group
	for i, p := range paths {
		g.Go(func() error {
			// absent files keep an empty slot and are skipped by PackChunks
			contents[i], _ = a.source.FetchFile(ctx, owner, repo.Name, p)
			return nil
		})
	}
	_ = g.Wait()

	files := make([]SourceFile, len(paths))
	for i, p := range paths {
		files[i] = SourceFile{Path: p, Content: contents[i]}
	}

	chunks := PackChunks(files, a.opts.MaxChunkBytes, log)
	if len(chunks) == 0 {
		log.Info("no analyzable files, skipping", zap.Int("files", len(all)), zap.Int("candidates", len(paths)))
		return types.GithubAnalysisReport{}, false
	}
	log.Info("split sources into chunks", zap.Int("chunks", len(chunks)))

	partial := make([]types.GithubAnalysisReport, len(chunks))
	var cg errgroup.Group
	for i, c := range chunks {
		cg.Go(func() error {
			partial[i] = a.analyzeChunk(ctx, repo.Name, c)
			return nil
		})
	}
	_ = cg.Wait()

	report := a.merge(ctx, repo.Name, partial)
	report.Stamp(repo.Name, repo.UpdatedAt)
	return report, true
}

func (a *Analyzer) analyzeChunk(ctx context.Context, repoName string, c Chunk) types.GithubAnalysisReport {
	vars := map[string]string{
		"RepoName":    repoName,
		"ProjectName": repoName,
		"Code":        c.Content,
	}
	system := prompts.Format(prompts.Analysis("repo-chunk-system"), vars)
	prompt := prompts.Format(prompts.Analysis("repo-chunk-prompt"), vars)
	return extract.JSON[types.GithubAnalysisReport](ctx, a.chunks, prompt, system)
}

// merge folds partial reports into one. A single report is returned unchanged. When the
// merge call fails the default report is returned and the partial reports are dropped.
func (a *Analyzer) merge(ctx context.Context, repoName string, reports []types.GithubAnalysisReport) types.GithubAnalysisReport {
	switch len(reports) {
	case 0:
		return types.NewGithubAnalysisReport()
	case 1:
		return reports[0]
	}

	var sb strings.Builder
	for i, r := range reports {
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "--- Partial Report %d ---\n%s\n\n", i+1, data)
	}

	vars := map[string]string{
		"RepoName":    repoName,
		"ProjectName": repoName,
		"Count":       strconv.Itoa(len(reports)),
		"Reports":     sb.String(),
	}
	merged := extract.JSON[types.GithubAnalysisReport](ctx, a.merges,
		prompts.Format(prompts.Analysis("repo-merge-prompt"), vars),
		prompts.Format(prompts.Analysis("repo-merge-system"), vars),
	)

	if reflect.DeepEqual(merged, types.NewGithubAnalysisReport()) {
		a.log.Warn("merge returned an empty report, partial reports dropped",
			zap.String("repo", repoName),
			zap.Int("partials", len(reports)),
		)
	}
	return merged
}
