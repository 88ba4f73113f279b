package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/document"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/server/ratelimit"
	"github.com/jonathan/resume-analyzer/internal/types"
)

type fakeAnalyzer struct {
	mu      sync.Mutex
	resume  string
	link    string
	mime    string
	data    []byte
	docErr  error
	started int
}

func (f *fakeAnalyzer) report() types.CompositeAnalysisReport {
	r := types.NewCompositeAnalysisReport()
	r.CandidateName = "Jane Doe"
	r.RevisedJobFit.UpdatedScore = 77
	return r
}

func (f *fakeAnalyzer) Analyze(_ context.Context, resumeText, applicationLink string) types.CompositeAnalysisReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started++
	f.resume, f.link = resumeText, applicationLink
	return f.report()
}

func (f *fakeAnalyzer) AnalyzeDocument(_ context.Context, mimeType string, data []byte, applicationLink string) (types.CompositeAnalysisReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mime, f.data, f.link = mimeType, data, applicationLink
	if f.docErr != nil {
		return types.CompositeAnalysisReport{}, f.docErr
	}
	return f.report(), nil
}

func (f *fakeAnalyzer) RunWithProgress(_ context.Context, resumeText, _ string, onProgress pipeline.ProgressCallback) *pipeline.Result {
	onProgress(pipeline.ProgressEvent{Step: pipeline.StepFit, Category: pipeline.CategoryResume, Message: "Initial job fit score: 70", RunID: "run-1"})
	onProgress(pipeline.ProgressEvent{Step: pipeline.StepComposite, Category: pipeline.CategorySynthesis, Message: "done", RunID: "run-1"})
	return &pipeline.Result{RunID: "run-1", Report: f.report()}
}

type fakeCompleter struct{ prompt string }

func (f *fakeCompleter) Complete(_ context.Context, prompt, _ string) string {
	f.prompt = prompt
	return "Hello, " + prompt
}

func newTestServer(opts Options) (*Server, *fakeAnalyzer, *fakeCompleter) {
	a, c := &fakeAnalyzer{}, &fakeCompleter{}
	return New(a, c, opts, zap.NewNop()), a, c
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	s, _, _ := newTestServer(Options{})

	w := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestAnalyzeEndpoint(t *testing.T) {
	s, a, _ := newTestServer(Options{})

	body := `{"resume_text":"Jane Doe\nGitHub: jdoe","application_link":"https://jobs.lever.co/acme/1"}`
	w := serve(s, httptest.NewRequest(http.MethodPost, "/resume", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "Jane Doe\nGitHub: jdoe", a.resume)
	assert.Equal(t, "https://jobs.lever.co/acme/1", a.link)

	var report types.CompositeAnalysisReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 77, report.RevisedJobFit.UpdatedScore)
	assert.Contains(t, w.Body.String(), `"red_flags":[]`)
}

func TestAnalyzeEndpoint_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"resume_text":`, "JSON"},
		{"empty body", ``, "JSON"},
		{"missing resume", `{"application_link":"https://example.com/job"}`, "ResumeText"},
		{"invalid link", `{"resume_text":"Jane","application_link":"not a url"}`, "ApplicationLink"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, a, _ := newTestServer(Options{})

			w := serve(s, httptest.NewRequest(http.MethodPost, "/resume", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
			assert.Zero(t, a.started)
		})
	}
}

func TestAnalyzeQueryEndpoint(t *testing.T) {
	s, a, _ := newTestServer(Options{})

	w := serve(s, httptest.NewRequest(http.MethodGet, "/resume?resume_text=Jane+Doe&application_link=https%3A%2F%2Fexample.com%2Fjob", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Jane Doe", a.resume)
	assert.Equal(t, "https://example.com/job", a.link)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/resume", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func multipartRequest(t *testing.T, filename string, content []byte, link string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile(formFieldFile, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField(formFieldLink, link))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/resume/pdf", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAnalyzeDocumentEndpoint(t *testing.T) {
	s, a, _ := newTestServer(Options{})

	w := serve(s, multipartRequest(t, "resume.pdf", []byte("%PDF-1.7 ..."), "https://example.com/job"))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, document.MIMEPDF, a.mime)
	assert.Equal(t, []byte("%PDF-1.7 ..."), a.data)
	assert.Equal(t, "https://example.com/job", a.link)
}

func TestAnalyzeDocumentEndpoint_BadRequests(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		s, _, _ := newTestServer(Options{})
		w := serve(s, multipartRequest(t, "", nil, ""))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), formFieldFile)
	})

	t.Run("invalid link", func(t *testing.T) {
		s, _, _ := newTestServer(Options{})
		w := serve(s, multipartRequest(t, "resume.pdf", []byte("%PDF"), "nope"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unsupported type", func(t *testing.T) {
		s, a, _ := newTestServer(Options{})
		a.docErr = &document.UnsupportedTypeError{MIME: "image/png"}
		w := serve(s, multipartRequest(t, "photo.png", []byte{0x89, 'P', 'N', 'G'}, ""))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unsupported file type")
	})

	t.Run("malformed pdf", func(t *testing.T) {
		s, a, _ := newTestServer(Options{})
		_, readErr := document.ExtractText(document.MIMEPDF, []byte("not a pdf at all"))
		require.Error(t, readErr)
		a.docErr = fmt.Errorf("failed to read resume document: %w", readErr)

		w := serve(s, multipartRequest(t, "cv.pdf", []byte("not a pdf at all"), ""))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "malformed application/pdf file")
	})

	t.Run("not multipart", func(t *testing.T) {
		s, _, _ := newTestServer(Options{})
		w := serve(s, httptest.NewRequest(http.MethodPost, "/resume/pdf", strings.NewReader("plain")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAnalyzeStreamEndpoint(t *testing.T) {
	s, _, _ := newTestServer(Options{})

	w := serve(s, httptest.NewRequest(http.MethodPost, "/resume/stream", strings.NewReader(`{"resume_text":"Jane"}`)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event: step\n"))
	assert.Contains(t, body, "id: 3\nevent: complete\n")
	assert.Contains(t, body, `"run_id":"run-1"`)
	assert.Contains(t, body, `"updated_score":77`)
}

func TestChatEndpoint(t *testing.T) {
	s, _, c := newTestServer(Options{})

	w := serve(s, httptest.NewRequest(http.MethodGet, "/chat?prompt=world", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "world", c.prompt)

	var answer string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &answer))
	assert.Equal(t, "Hello, world", answer)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/chat", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestIDPropagation(t *testing.T) {
	s, _, _ := newTestServer(Options{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := serve(s, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	s, a, _ := newTestServer(Options{})

	w := serve(s, httptest.NewRequest(http.MethodOptions, "/resume", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Zero(t, a.started)
}

func TestRateLimit(t *testing.T) {
	s, _, _ := newTestServer(Options{RateLimit: ratelimit.NewConfig(1, 1, "")})
	defer s.rateLimiter.Stop()

	body := `{"resume_text":"Jane"}`
	w := serve(s, httptest.NewRequest(http.MethodPost, "/resume", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = serve(s, httptest.NewRequest(http.MethodPost, "/resume", strings.NewReader(body)))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")

	// Health stays available
	w = serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	s, _, _ := newTestServer(Options{Port: 0})
	s.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, s.Start(ctx))
}
