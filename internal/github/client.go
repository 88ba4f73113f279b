// Package github reads repository listings, directory trees and file contents from the
// GitHub REST API. Every read degrades instead of failing: listings stop at the first
// failed page, failed directories contribute no files, failed fetches are absent.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/resume-analyzer/internal/logger"
)

const (
	// DefaultBaseURL is the public GitHub REST endpoint.
	DefaultBaseURL = "https://api.github.com"
	// DefaultTimeout bounds every request made by the client.
	DefaultTimeout = 50 * time.Second

	perPage   = 100
	userAgent = "resume-analyzer"
	maxPages  = 100
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// MaxListingConcurrency caps in-flight directory listings. Zero means unbounded.
	MaxListingConcurrency int
	HTTPClient            *http.Client
}

// Client is a minimal GitHub REST client. Safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	listing *semaphore.Weighted
	log     *zap.Logger
}

// NewClient builds a Client. A missing token is logged once, since unauthenticated
// requests are heavily rate limited.
func NewClient(opts Options, log *zap.Logger) *Client {
	log = logger.OrNop(log).Named("github")

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	var listing *semaphore.Weighted
	if opts.MaxListingConcurrency > 0 {
		listing = semaphore.NewWeighted(int64(opts.MaxListingConcurrency))
	}

	if opts.Token == "" {
		log.Warn("GITHUB_TOKEN is not set; API requests will be severely rate-limited")
	}

	return &Client{
		baseURL: baseURL,
		token:   opts.Token,
		http:    httpClient,
		listing: listing,
		log:     log,
	}
}

// APIError is a non-2xx response from the API.
type APIError struct {
	URL        string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("github api %s: status %d: %s", e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("github api %s: status %d", e.URL, e.StatusCode)
}

// ListRepos returns every public repository of user, following pagination. A failed page
// ends pagination and the repositories collected so far are returned.
func (c *Client) ListRepos(ctx context.Context, user string) []Repo {
	log := c.log.With(zap.String("user", user))
	next := fmt.Sprintf("%s/users/%s/repos?per_page=%d", c.baseURL, url.PathEscape(user), perPage)

	repos := []Repo{}
	seen := make(map[string]bool)
	for page := 1; next != "" && page <= maxPages; page++ {
		if seen[next] {
			break
		}
		seen[next] = true

		var batch []Repo
		header, err := c.getJSON(ctx, next, &batch)
		if err != nil {
			log.Warn("stopping repository pagination", zap.Int("page", page), zap.Error(err))
			break
		}
		repos = append(repos, batch...)
		next = nextLink(header.Get("Link"))
	}

	log.Info("listed repositories", zap.Int("count", len(repos)))
	return repos
}

// ListFiles returns the path of every file in the repository. Each directory is listed
// by its own goroutine; a directory that cannot be listed contributes no files.
func (c *Client) ListFiles(ctx context.Context, owner, repo string) []string {
	files := c.listDir(ctx, owner, repo, "")
	c.log.Debug("listed files", zap.String("repo", owner+"/"+repo), zap.Int("count", len(files)))
	return files
}

func (c *Client) listDir(ctx context.Context, owner, repo, dir string) []string {
	entries, err := c.listContents(ctx, owner, repo, dir)
	if err != nil {
		c.log.Warn("could not list directory",
			zap.String("repo", owner+"/"+repo),
			zap.String("path", dir),
			zap.Error(err),
		)
		return nil
	}

	var files, dirs []string
	for _, e := range entries {
		switch e.Type {
		case "file":
			files = append(files, e.Path)
		case "dir":
			dirs = append(dirs, e.Path)
		}
	}

	nested := make([][]string, len(dirs))
	var g errgroup.Group
	for i, d := range dirs {
		g.Go(func() error {
			nested[i] = c.listDir(ctx, owner, repo, d)
			return nil
		})
	}
	_ = g.Wait()

	for _, n := range nested {
		files = append(files, n...)
	}
	return files
}

// listContents holds a listing slot only for the HTTP call, never while recursing.
func (c *Client) listContents(ctx context.Context, owner, repo, dir string) ([]contentEntry, error) {
	if c.listing != nil {
		if err := c.listing.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer c.listing.Release(1)
	}

	var entries []contentEntry
	if _, err := c.getJSON(ctx, c.contentsURL(owner, repo, dir), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FetchFile returns the decoded content of a file. Transport failures, non-base64
// encodings and undecodable content are reported as absent.
func (c *Client) FetchFile(ctx context.Context, owner, repo, path string) (string, bool) {
	log := c.log.With(zap.String("repo", owner+"/"+repo), zap.String("path", path))

	var f fileContent
	if _, err := c.getJSON(ctx, c.contentsURL(owner, repo, path), &f); err != nil {
		log.Warn("failed to fetch file", zap.Error(err))
		return "", false
	}
	if f.Encoding != "base64" {
		log.Debug("unsupported file encoding", zap.String("encoding", f.Encoding))
		return "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(f.Content, "\n", ""))
	if err != nil {
		log.Warn("failed to decode file content", zap.Error(err))
		return "", false
	}
	return string(decoded), true
}

func (c *Client) contentsURL(owner, repo, path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), strings.Join(segments, "/"))
}

func (c *Client) getJSON(ctx context.Context, target string, out any) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
		return nil, &APIError{URL: target, StatusCode: resp.StatusCode, Message: body.Message}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", target, err)
	}
	return resp.Header, nil
}
