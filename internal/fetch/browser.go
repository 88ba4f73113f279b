package fetch

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/logger"
)

// DefaultSettleDelay is how long scripts get to render after the body is ready.
const DefaultSettleDelay = 5 * time.Second

// BrowserRenderer renders pages in headless Chrome. Requires Chrome or Chromium on the host.
type BrowserRenderer struct {
	Timeout     time.Duration
	SettleDelay time.Duration
	log         *zap.Logger
}

// NewBrowserRenderer returns a renderer bounded by timeout.
func NewBrowserRenderer(timeout time.Duration, log *zap.Logger) *BrowserRenderer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &BrowserRenderer{
		Timeout:     timeout,
		SettleDelay: DefaultSettleDelay,
		log:         logger.OrNop(log).Named("browser"),
	}
}

// Render navigates to pageURL, waits for scripts to settle and returns the rendered HTML.
// Each call runs its own browser process.
func (b *BrowserRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	if err := validateURL(pageURL); err != nil {
		return "", err
	}
	b.log.Debug("starting headless browser", zap.String("url", pageURL))

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, b.Timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(b.SettleDelay),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: pageURL, Message: "browser rendering failed", Cause: err}
	}

	b.log.Debug("rendered page", zap.String("url", pageURL), zap.Int("bytes", len(html)))
	return html, nil
}
