package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/composite"
	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/discovery"
	"github.com/jonathan/resume-analyzer/internal/extract"
	"github.com/jonathan/resume-analyzer/internal/fetch"
	"github.com/jonathan/resume-analyzer/internal/fit"
	"github.com/jonathan/resume-analyzer/internal/github"
	"github.com/jonathan/resume-analyzer/internal/jobreq"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/logger"
	"github.com/jonathan/resume-analyzer/internal/repoanalysis"
)

// Components are the concrete parts of an analysis run, shared by the CLI and the server.
type Components struct {
	Client       llm.Client
	Extractor    *extract.Extractor
	Github       *github.Client
	Pages        *fetch.PageReader
	Jobs         *jobreq.Extractor
	Finder       *discovery.Finder
	Repos        *repoanalysis.Analyzer
	Fit          *fit.Analyzer
	Composite    *composite.Synthesizer
	Orchestrator *Orchestrator
}

// NewFromConfig creates the generative service client for cfg and assembles every
// component around it. Callers must Close the result.
func NewFromConfig(ctx context.Context, cfg *config.Config, opts Options, log *zap.Logger) (*Components, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	client, err := llm.NewClient(ctx, cfg.LLM(), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return Assemble(cfg, client, nil, opts, log), nil
}

// Assemble builds the components around client. A nil renderer selects headless Chrome
// or plain HTTP according to cfg.UseBrowser.
func Assemble(cfg *config.Config, client llm.Client, renderer fetch.Renderer, opts Options, log *zap.Logger) *Components {
	log = logger.OrNop(log)

	if renderer == nil {
		if cfg.UseBrowser {
			renderer = fetch.NewBrowserRenderer(cfg.RenderTimeout, log)
		} else {
			renderer = fetch.NewHTTPRenderer(cfg.RenderTimeout)
		}
	}

	c := &Components{Client: client}
	c.Extractor = extract.New(client, log)
	c.Github = github.NewClient(github.Options{
		BaseURL:               cfg.GithubAPIURL,
		Token:                 cfg.GithubToken,
		Timeout:               cfg.HTTPTimeout,
		MaxListingConcurrency: cfg.MaxListingConcurrency,
	}, log)
	c.Pages = fetch.NewPageReader(renderer, cfg.PageFormat == config.PageFormatMarkdown, log)
	c.Jobs = jobreq.New(c.Pages, c.Extractor, log)
	c.Finder = discovery.New(c.Extractor, log)
	c.Repos = repoanalysis.New(c.Github, c.Extractor, repoanalysis.Options{
		MaxRepos:      cfg.MaxRepos,
		MaxChunkBytes: cfg.MaxChunkBytes,
	}, log)
	c.Fit = fit.New(c.Extractor, log)
	c.Composite = composite.New(c.Extractor, log)

	c.Orchestrator = New(Deps{
		Jobs:      c.Jobs,
		Fit:       c.Fit,
		Finder:    c.Finder,
		Repos:     c.Repos,
		Composite: c.Composite,
	}, opts, log)
	return c
}

// Close releases the generative service client.
func (c *Components) Close() error {
	return c.Client.Close()
}
