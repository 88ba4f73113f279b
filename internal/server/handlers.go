package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/document"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Multipart field names of POST /resume/pdf.
const (
	formFieldFile = "resume_pdf_file"
	formFieldLink = "application_link"
)

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze analyzes a résumé sent as a JSON body.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.analyzer.Analyze(r.Context(), req.ResumeText, req.ApplicationLink))
}

// handleAnalyzeQuery analyzes a résumé sent as query parameters.
func (s *Server) handleAnalyzeQuery(w http.ResponseWriter, r *http.Request) {
	req := types.AnalyzeRequest{
		ResumeText:      r.URL.Query().Get("resume_text"),
		ApplicationLink: r.URL.Query().Get("application_link"),
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request", validationDetails(err)...)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.analyzer.Analyze(r.Context(), req.ResumeText, req.ApplicationLink))
}

// handleAnalyzeDocument analyzes an uploaded PDF, DOCX or plain text résumé.
func (s *Server) handleAnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	req := types.DocumentRequest{ApplicationLink: r.FormValue(formFieldLink)}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request", validationDetails(err)...)
		return
	}

	file, header, err := r.FormFile(formFieldFile)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, formFieldFile+" is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read upload: "+err.Error())
		return
	}

	mimeType := document.DetectType(header.Filename, data)
	s.log.Info("received resume document",
		zap.String("filename", header.Filename),
		zap.String("mime", mimeType),
		zap.Int("bytes", len(data)),
	)

	report, err := s.analyzer.AnalyzeDocument(r.Context(), mimeType, data, req.ApplicationLink)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleAnalyzeStream runs an analysis and streams progress via SSE
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	res := s.analyzer.RunWithProgress(r.Context(), req.ResumeText, req.ApplicationLink, func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("step", event); err != nil && !errors.Is(err, errStreamClosed) {
			s.log.Warn("error writing SSE event", zap.String("step", event.Step), zap.Error(err))
		}
	})
	if err := sse.WriteComplete(res.RunID, res.Report); err != nil {
		s.log.Warn("client did not receive the report", zap.String("run_id", res.RunID), zap.Error(err))
	}
}

// handleChat passes a prompt to the generative service and returns its answer.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req := types.ChatRequest{Prompt: r.URL.Query().Get("prompt")}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request", validationDetails(err)...)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.completer.Complete(r.Context(), req.Prompt, ""))
}

func (s *Server) decodeAnalyzeRequest(w http.ResponseWriter, r *http.Request) (types.AnalyzeRequest, bool) {
	var req types.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var syntaxErr *json.SyntaxError
		msg := "invalid request body: " + err.Error()
		if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			msg = "request body must be a JSON object"
		}
		s.errorResponse(w, http.StatusBadRequest, msg)
		return req, false
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request", validationDetails(err)...)
		return req, false
	}
	return req, true
}
