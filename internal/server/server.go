// Package server provides the HTTP API for résumé analysis.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/logger"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/server/ratelimit"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// DefaultMaxUploadBytes bounds uploaded résumé files.
const DefaultMaxUploadBytes = 10 << 20

// Analyzer runs résumé analyses. *pipeline.Orchestrator satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, resumeText, applicationLink string) types.CompositeAnalysisReport
	AnalyzeDocument(ctx context.Context, mimeType string, data []byte, applicationLink string) (types.CompositeAnalysisReport, error)
	RunWithProgress(ctx context.Context, resumeText, applicationLink string, onProgress pipeline.ProgressCallback) *pipeline.Result
}

// Completer answers free-text prompts. *extract.Extractor satisfies it.
type Completer interface {
	Complete(ctx context.Context, prompt, system string) string
}

// Options configures a Server. Zero values use defaults.
type Options struct {
	Port           int
	RateLimit      *ratelimit.Config
	MaxUploadBytes int64
}

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	analyzer       Analyzer
	completer      Completer
	rateLimiter    *ratelimit.Limiter
	maxUploadBytes int64
	log            *zap.Logger
}

// New creates a new server instance
func New(analyzer Analyzer, completer Completer, opts Options, log *zap.Logger) *Server {
	s := &Server{
		analyzer:       analyzer,
		completer:      completer,
		rateLimiter:    ratelimit.NewLimiter(opts.RateLimit),
		maxUploadBytes: opts.MaxUploadBytes,
		log:            logger.OrNop(log).Named("server"),
	}
	if s.maxUploadBytes <= 0 {
		s.maxUploadBytes = DefaultMaxUploadBytes
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 600 * time.Second, // Long timeout for analysis runs
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with every middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /resume", s.handleAnalyze)
	mux.HandleFunc("GET /resume", s.handleAnalyzeQuery)
	mux.HandleFunc("POST /resume/pdf", s.handleAnalyzeDocument)
	mux.HandleFunc("POST /resume/stream", s.handleAnalyzeStream)
	mux.HandleFunc("GET /chat", s.handleChat)

	return s.withRequestID(s.withLogging(s.withRateLimit(s.withCORS(mux))))
}

// Start serves until ctx is cancelled or the process receives SIGINT or SIGTERM, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.rateLimiter.Stop()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	s.rateLimiter.Stop()
	s.log.Info("server stopped")
	return nil
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		s.log.Warn("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string, details ...string) {
	body := map[string]any{"error": message}
	if len(details) > 0 {
		body["details"] = details
	}
	s.jsonResponse(w, status, body)
}
