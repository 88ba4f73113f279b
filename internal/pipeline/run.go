// Package pipeline orchestrates one analysis run: the résumé fit branch and the
// repository branch run concurrently, then their outputs are synthesized.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-analyzer/internal/document"
	"github.com/jonathan/resume-analyzer/internal/logger"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Step names reported through ProgressEvent.
const (
	StepJobRequirements = "job_requirements"
	StepFit             = "fit"
	StepDiscovery       = "discovery"
	StepRepositories    = "repositories"
	StepComposite       = "composite"
)

// Step categories.
const (
	CategoryResume     = "resume"
	CategoryRepository = "repository"
	CategorySynthesis  = "synthesis"
)

// ProgressEvent represents a progress update during a run.
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when a step finishes. The two branches report
// concurrently, so callbacks must be safe for concurrent use.
type ProgressCallback func(event ProgressEvent)

// RequirementExtractor reads the requirement sections of a job posting.
type RequirementExtractor interface {
	ExtractRequirements(ctx context.Context, pageURL string) string
}

// FitAnalyzer rates a résumé against job requirements.
type FitAnalyzer interface {
	AnalyzeFit(ctx context.Context, resumeText, jobRequirements string) types.CandidateProfile
}

// UsernameFinder locates the candidate's GitHub username.
type UsernameFinder interface {
	FindUsername(ctx context.Context, resumeText string) (string, bool)
}

// RepositoryAnalyzer analyzes a user's most recent repositories.
type RepositoryAnalyzer interface {
	AnalyzeUser(ctx context.Context, user string) []types.GithubAnalysisReport
}

// Synthesizer produces the final report.
type Synthesizer interface {
	Synthesize(ctx context.Context, profile types.CandidateProfile, reports []types.GithubAnalysisReport) types.CompositeAnalysisReport
}

// Deps are the components a run is built from.
type Deps struct {
	Jobs      RequirementExtractor
	Fit       FitAnalyzer
	Finder    UsernameFinder
	Repos     RepositoryAnalyzer
	Composite Synthesizer
}

// Options holds optional run settings.
type Options struct {
	OnProgress ProgressCallback
}

// Result holds every intermediate record of a run.
type Result struct {
	RunID           string
	JobRequirements string
	Profile         types.CandidateProfile
	Username        string
	Reports         []types.GithubAnalysisReport
	Report          types.CompositeAnalysisReport
	Duration        time.Duration
}

// Orchestrator runs analyses. Safe for concurrent use.
type Orchestrator struct {
	deps Deps
	opts Options
	log  *zap.Logger
}

// New returns an Orchestrator.
func New(deps Deps, opts Options, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		deps: deps,
		opts: opts,
		log:  logger.OrNop(log).Named("pipeline"),
	}
}

// Analyze returns the composite report for resumeText. applicationLink may be empty.
// It never fails: every component degrades to a default value.
func (o *Orchestrator) Analyze(ctx context.Context, resumeText, applicationLink string) types.CompositeAnalysisReport {
	return o.Run(ctx, resumeText, applicationLink).Report
}

// AnalyzeDocument converts an uploaded résumé to text and analyzes it. Only the
// conversion can fail.
func (o *Orchestrator) AnalyzeDocument(ctx context.Context, mimeType string, data []byte, applicationLink string) (types.CompositeAnalysisReport, error) {
	text, err := document.ExtractText(mimeType, data)
	if err != nil {
		return types.CompositeAnalysisReport{}, fmt.Errorf("failed to read resume document: %w", err)
	}
	return o.Analyze(ctx, text, applicationLink), nil
}

// Run performs an analysis and keeps the intermediate records.
func (o *Orchestrator) Run(ctx context.Context, resumeText, applicationLink string) *Result {
	return o.RunWithProgress(ctx, resumeText, applicationLink, o.opts.OnProgress)
}

// RunWithProgress is Run with a per-run progress callback in place of Options.OnProgress.
func (o *Orchestrator) RunWithProgress(ctx context.Context, resumeText, applicationLink string, onProgress ProgressCallback) *Result {
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	emit := func(step, category, message string, content any) {
		if onProgress != nil {
			onProgress(ProgressEvent{Step: step, Category: category, Message: message, RunID: res.RunID, Content: content})
		}
	}
	log := o.log.With(zap.String("run_id", res.RunID))
	log.Info("analysis started", zap.Int("resume_len", len(resumeText)), zap.String("application_link", applicationLink))

	// Each branch writes only its own fields of res.
	var g errgroup.Group
	g.Go(func() error {
		o.runFitBranch(ctx, res, resumeText, applicationLink, emit)
		return nil
	})
	g.Go(func() error {
		o.runRepositoryBranch(ctx, res, resumeText, emit)
		return nil
	})
	_ = g.Wait()

	res.Report = o.deps.Composite.Synthesize(ctx, res.Profile, res.Reports)
	emit(StepComposite, CategorySynthesis,
		fmt.Sprintf("Revised job fit score: %d", res.Report.RevisedJobFit.UpdatedScore), res.Report)

	res.Duration = time.Since(start)
	log.Info("analysis finished",
		zap.Duration("elapsed", res.Duration),
		zap.Int("repositories", len(res.Reports)),
		zap.Int("updated_score", res.Report.RevisedJobFit.UpdatedScore),
	)
	return res
}

type emitFunc func(step, category, message string, content any)

func (o *Orchestrator) runFitBranch(ctx context.Context, res *Result, resumeText, applicationLink string, emit emitFunc) {
	if applicationLink != "" {
		res.JobRequirements = o.deps.Jobs.ExtractRequirements(ctx, applicationLink)
		emit(StepJobRequirements, CategoryResume,
			fmt.Sprintf("Extracted %d characters of job requirements", len(res.JobRequirements)), nil)
	}

	res.Profile = o.deps.Fit.AnalyzeFit(ctx, resumeText, res.JobRequirements)
	emit(StepFit, CategoryResume,
		fmt.Sprintf("Initial job fit score: %d", res.Profile.JobFitAnalysis.OverallScore), res.Profile)
}

func (o *Orchestrator) runRepositoryBranch(ctx context.Context, res *Result, resumeText string, emit emitFunc) {
	res.Reports = []types.GithubAnalysisReport{}

	user, ok := o.deps.Finder.FindUsername(ctx, resumeText)
	if !ok {
		emit(StepDiscovery, CategoryRepository, "No GitHub username found", nil)
		return
	}
	res.Username = user
	emit(StepDiscovery, CategoryRepository, "Found GitHub user "+user, nil)

	res.Reports = o.deps.Repos.AnalyzeUser(ctx, user)
	emit(StepRepositories, CategoryRepository,
		fmt.Sprintf("Analyzed %d repositories", len(res.Reports)), res.Reports)
}
