package jobreq

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/extract"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/llm/llmtest"
)

type fakePages struct {
	text string
	err  error
}

func (f fakePages) Text(context.Context, string) (string, error) {
	return f.text, f.err
}

func TestExtractRequirements(t *testing.T) {
	client := llmtest.Static("Requirements:\n- 3+ years of Go")
	e := New(fakePages{text: "Senior Backend Engineer\nRequirements:\n- 3+ years of Go\nApply now"}, extract.New(client, nil), nil)

	got := e.ExtractRequirements(context.Background(), "https://jobs.lever.co/acme/1")
	assert.Equal(t, "Requirements:\n- 3+ years of Go", got)

	reqs := client.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, llm.TierLite, reqs[0].Tier)
	assert.False(t, reqs[0].JSON)
	assert.Contains(t, reqs[0].Prompt, "Apply now")
	assert.Contains(t, reqs[0].System, "Copy the text exactly")
}

func TestExtractRequirements_NoLLMCallWithoutText(t *testing.T) {
	tests := []struct {
		name  string
		pages fakePages
	}{
		{"render failure", fakePages{err: errors.New("browser rendering failed")}},
		{"empty page", fakePages{text: ""}},
		{"whitespace only", fakePages{text: " \n\t "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := llmtest.Static("should not be used")
			e := New(tt.pages, extract.New(client, nil), nil)

			assert.Empty(t, e.ExtractRequirements(context.Background(), "https://example.com/job"))
			assert.Zero(t, client.Calls())
		})
	}
}

func TestExtractRequirements_GenerationFailure(t *testing.T) {
	client := llmtest.Failing()
	e := New(fakePages{text: "Requirements: Go"}, extract.New(client, nil), nil)

	assert.Empty(t, e.ExtractRequirements(context.Background(), "https://example.com/job"))
	assert.Equal(t, 1, client.Calls())
}
