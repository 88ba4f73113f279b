// Package fit scores a résumé against job requirements.
package fit

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/extract"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/logger"
	"github.com/jonathan/resume-analyzer/internal/prompts"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Analyzer parses a résumé and rates its fit in a single generative call.
type Analyzer struct {
	ext *extract.Extractor
	log *zap.Logger
}

// New returns an Analyzer at the standard tier.
func New(ext *extract.Extractor, log *zap.Logger) *Analyzer {
	return &Analyzer{
		ext: ext.WithTier(llm.TierStandard),
		log: logger.OrNop(log).Named("fit"),
	}
}

// AnalyzeFit returns the parsed résumé and its job fit. jobRequirements may be empty.
// A failed call yields the default profile.
func (a *Analyzer) AnalyzeFit(ctx context.Context, resumeText, jobRequirements string) types.CandidateProfile {
	prompt := prompts.Format(prompts.Analysis("fit-prompt"), map[string]string{
		"JobRequirements": jobRequirements,
		"ResumeText":      resumeText,
	})

	profile := extract.JSON[types.CandidateProfile](ctx, a.ext, prompt, prompts.Analysis("fit-system"))

	score := profile.JobFitAnalysis.OverallScore
	if score < 0 || score > 100 {
		a.log.Warn("overall score out of range", zap.Int("score", score))
	}
	a.log.Info("resume fit analyzed",
		zap.String("candidate", profile.ResumeData.ContactInfo.Name),
		zap.Int("score", score),
		zap.Bool("with_requirements", jobRequirements != ""),
	)
	return profile
}
