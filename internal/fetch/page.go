package fetch

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/logger"
)

// PageReader renders a page and reduces it to text or markdown.
type PageReader struct {
	renderer Renderer
	markdown bool
	log      *zap.Logger
}

// NewPageReader returns a reader. When markdown is set, pages are converted to markdown
// instead of plain text.
func NewPageReader(renderer Renderer, markdown bool, log *zap.Logger) *PageReader {
	return &PageReader{
		renderer: renderer,
		markdown: markdown,
		log:      logger.OrNop(log).Named("fetch"),
	}
}

// Text returns the readable content of pageURL. Render and parse failures return an error.
func (p *PageReader) Text(ctx context.Context, pageURL string) (string, error) {
	html, err := p.renderer.Render(ctx, pageURL)
	if err != nil {
		return "", err
	}

	platform := DetectPlatform(pageURL)
	content := PlatformContentSelectors(platform)
	noise := PlatformNoiseSelectors(platform)

	var text string
	if p.markdown {
		text, err = ToMarkdown(html, content, noise...)
	} else {
		text, err = ExtractMainText(html, content, noise...)
	}
	if err != nil {
		return "", &Error{URL: pageURL, Message: "failed to extract text", Cause: err}
	}

	p.log.Info("extracted page text",
		zap.String("platform", string(platform)),
		zap.Int("html_bytes", len(html)),
		zap.Int("text_bytes", len(text)),
	)
	return text, nil
}
