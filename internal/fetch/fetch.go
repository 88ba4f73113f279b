// Package fetch renders web pages and reduces them to readable text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds a single page render.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is sent by both renderers.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// maxBodyBytes caps how much of a page the HTTP renderer reads.
const maxBodyBytes = 10 << 20

// Renderer returns the HTML of a page.
type Renderer interface {
	Render(ctx context.Context, pageURL string) (string, error)
}

// Error represents an error while rendering a page.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPRenderer fetches raw HTML without executing scripts. It serves pages that render
// server-side and environments without Chrome.
type HTTPRenderer struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPRenderer returns an HTTPRenderer with the given timeout.
func NewHTTPRenderer(timeout time.Duration) *HTTPRenderer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPRenderer{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: DefaultUserAgent,
	}
}

// Render performs a GET and returns the body of a 200 response.
func (r *HTTPRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	if err := validateURL(pageURL); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &Error{URL: pageURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", r.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := r.Client.Do(req)
	if err != nil {
		return "", &Error{URL: pageURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{URL: pageURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &Error{URL: pageURL, Message: "failed to read response body", Cause: err}
	}
	return string(body), nil
}

func validateURL(pageURL string) error {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return &Error{URL: pageURL, Message: "invalid URL", Cause: err}
	}
	return nil
}
