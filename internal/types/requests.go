package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// AnalyzeRequest is the inbound body (or query) of a résumé analysis.
type AnalyzeRequest struct {
	ResumeText      string `json:"resume_text" validate:"required"`
	ApplicationLink string `json:"application_link,omitempty" validate:"omitempty,url"`
}

// DocumentRequest carries the form fields sent alongside an uploaded résumé file.
type DocumentRequest struct {
	ApplicationLink string `json:"application_link,omitempty" validate:"omitempty,url"`
}

// ChatRequest is a plain completion request.
type ChatRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the DocumentRequest using the validator.
func (r *DocumentRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ChatRequest using the validator.
func (r *ChatRequest) Validate() error {
	return validate.Struct(r)
}
