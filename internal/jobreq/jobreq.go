// Package jobreq pulls the verbatim requirement sections out of a job posting.
package jobreq

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/extract"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/logger"
	"github.com/jonathan/resume-analyzer/internal/prompts"
)

// PageSource returns the readable text of a web page. *fetch.PageReader satisfies it.
type PageSource interface {
	Text(ctx context.Context, pageURL string) (string, error)
}

// Extractor turns a job posting URL into requirement text.
type Extractor struct {
	pages PageSource
	ext   *extract.Extractor
	log   *zap.Logger
}

// New returns an Extractor that asks the generative service at the lite tier.
func New(pages PageSource, ext *extract.Extractor, log *zap.Logger) *Extractor {
	return &Extractor{
		pages: pages,
		ext:   ext.WithTier(llm.TierLite),
		log:   logger.OrNop(log).Named("jobreq"),
	}
}

// ExtractRequirements returns the requirement sections of the posting at pageURL copied
// verbatim. It returns "" when the page cannot be rendered, has no visible text, or the
// generative call fails.
func (e *Extractor) ExtractRequirements(ctx context.Context, pageURL string) string {
	log := e.log.With(zap.String("url", pageURL))

	text, err := e.pages.Text(ctx, pageURL)
	if err != nil {
		log.Warn("failed to read job posting", zap.Error(err))
		return ""
	}
	if strings.TrimSpace(text) == "" {
		log.Warn("job posting has no visible text")
		return ""
	}

	prompt := prompts.Format(prompts.Analysis("job-requirements-prompt"), map[string]string{
		"PageText": text,
	})
	requirements := e.ext.Complete(ctx, prompt, prompts.Analysis("job-requirements-system"))
	if requirements == extract.FailureSentinel {
		log.Warn("job requirement extraction failed")
		return ""
	}

	log.Info("extracted job requirements", zap.Int("page_len", len(text)), zap.Int("requirements_len", len(requirements)))
	return requirements
}
