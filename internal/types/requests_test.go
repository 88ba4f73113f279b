package types

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     AnalyzeRequest
		wantErr string
	}{
		{name: "text only", req: AnalyzeRequest{ResumeText: "Jane Doe"}},
		{name: "text and link", req: AnalyzeRequest{ResumeText: "Jane Doe", ApplicationLink: "https://jobs.example.com/42"}},
		{name: "missing text", req: AnalyzeRequest{}, wantErr: "ResumeText"},
		{name: "bad link", req: AnalyzeRequest{ResumeText: "Jane", ApplicationLink: "not a url"}, wantErr: "ApplicationLink"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.wantErr, verrs[0].Field())
		})
	}
}

func TestDocumentRequest_Validation(t *testing.T) {
	assert.NoError(t, (&DocumentRequest{}).Validate())
	assert.Error(t, (&DocumentRequest{ApplicationLink: "ftp//broken"}).Validate())
}

func TestChatRequest_Validation(t *testing.T) {
	assert.NoError(t, (&ChatRequest{Prompt: "hello"}).Validate())
	assert.Error(t, (&ChatRequest{}).Validate())
}
