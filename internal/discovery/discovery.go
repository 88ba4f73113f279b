// Package discovery finds the candidate's GitHub username in résumé text.
package discovery

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/extract"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/logger"
	"github.com/jonathan/resume-analyzer/internal/prompts"
)

var (
	profileURLRe = regexp.MustCompile(`https?://(?:www\.)?github\.com/([\w\-.]+)`)
	bareURLRe    = regexp.MustCompile(`github\.com/([\w\-.]+)`)
	labelRe      = regexp.MustCompile(`(?i)github:\s*([\w\-.]+)`)
)

// reserved are github.com paths that are never usernames.
var reserved = map[string]bool{
	"orgs": true, "topics": true, "explore": true, "trending": true, "search": true,
	"settings": true, "notifications": true, "features": true, "about": true,
	"login": true, "join": true, "marketplace": true, "sponsors": true, "collections": true,
}

// Finder locates a GitHub username.
type Finder struct {
	ext *extract.Extractor
	log *zap.Logger
}

// New returns a Finder that asks the generative service at the lite tier.
func New(ext *extract.Extractor, log *zap.Logger) *Finder {
	return &Finder{
		ext: ext.WithTier(llm.TierLite),
		log: logger.OrNop(log).Named("discovery"),
	}
}

// FindUsername tries, in order: a profile URL in the generative service's answer, a
// github.com URL in the résumé, then a "github: name" label in the résumé.
func (f *Finder) FindUsername(ctx context.Context, resumeText string) (string, bool) {
	prompt := prompts.Format(prompts.Analysis("find-github-username"), map[string]string{
		"ResumeText": resumeText,
	})
	answer := f.ext.Complete(ctx, prompt, "")

	if name, ok := match(profileURLRe, answer); ok {
		f.log.Info("found github username", zap.String("source", "llm"), zap.String("user", name))
		return name, true
	}
	if name, ok := match(bareURLRe, resumeText); ok {
		f.log.Info("found github username", zap.String("source", "resume_url"), zap.String("user", name))
		return name, true
	}
	if name, ok := match(labelRe, resumeText); ok {
		f.log.Info("found github username", zap.String("source", "resume_label"), zap.String("user", name))
		return name, true
	}

	f.log.Info("no github username found")
	return "", false
}

// match returns the first capture of re in s that looks like a username.
func match(re *regexp.Regexp, s string) (string, bool) {
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		name := strings.TrimRight(m[1], ".")
		if name == "" || reserved[strings.ToLower(name)] {
			continue
		}
		return name, true
	}
	return "", false
}
