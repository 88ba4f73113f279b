// Package composite cross-validates the résumé analysis against repository evidence.
package composite

import (
	"bytes"
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/extract"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/logger"
	"github.com/jonathan/resume-analyzer/internal/prompts"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Synthesizer produces the final report of an analysis run.
type Synthesizer struct {
	ext *extract.Extractor
	log *zap.Logger
}

// New returns a Synthesizer at the advanced tier.
func New(ext *extract.Extractor, log *zap.Logger) *Synthesizer {
	return &Synthesizer{
		ext: ext.WithTier(llm.TierAdvanced),
		log: logger.OrNop(log).Named("composite"),
	}
}

// Synthesize combines profile and reports into one CompositeAnalysisReport. reports may
// be empty. The revised score is logged when outside 0..100 but never clamped.
func (s *Synthesizer) Synthesize(ctx context.Context, profile types.CandidateProfile, reports []types.GithubAnalysisReport) types.CompositeAnalysisReport {
	if reports == nil {
		reports = []types.GithubAnalysisReport{}
	}
	profileJSON, err := indentJSON(profile)
	if err != nil {
		s.log.Warn("failed to serialize profile", zap.Error(err))
	}
	reportsJSON, err := indentJSON(reports)
	if err != nil {
		s.log.Warn("failed to serialize repository reports", zap.Error(err))
	}

	prompt := prompts.Format(prompts.Analysis("composite-prompt"), map[string]string{
		"Profile": profileJSON,
		"Reports": reportsJSON,
	})
	report := extract.JSON[types.CompositeAnalysisReport](ctx, s.ext, prompt, prompts.Analysis("composite-system"))

	score := report.RevisedJobFit.UpdatedScore
	if score < 0 || score > 100 {
		s.log.Warn("updated score out of range", zap.Int("score", score))
	}
	s.log.Info("composite analysis complete",
		zap.Int("repositories", len(reports)),
		zap.Int("updated_score", score),
		zap.Int("red_flags", len(report.RedFlags)),
	)
	return report
}

// indentJSON renders v as indented JSON without escaping <, > and &, which are common
// in code-related text.
func indentJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
