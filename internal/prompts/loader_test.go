package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	set, err := Load(AnalysisFile)
	require.NoError(t, err)

	prompt, err := set.Get("fit-prompt")
	require.NoError(t, err)
	assert.Contains(t, prompt, "--- JOB REQUIREMENTS ---")

	_, err = set.Get("nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	assert.IsIncreasing(t, set.Keys())
}

func TestLoad_UnknownFile(t *testing.T) {
	_, err := Load("nonexistent.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestAnalysis_UnknownKeyPanics(t *testing.T) {
	assert.Panics(t, func() { Analysis("nonexistent-key") })
}

// Every analysis prompt must declare exactly the placeholders its caller fills in.
func TestAnalysis_Placeholders(t *testing.T) {
	want := map[string][]string{
		"find-github-username":    {"ResumeText"},
		"text-default-system":     nil,
		"json-default-system":     nil,
		"job-requirements-system": nil,
		"job-requirements-prompt": {"PageText"},
		"fit-system":              nil,
		"fit-prompt":              {"JobRequirements", "ResumeText"},
		"repo-chunk-system":       {"ProjectName", "RepoName"},
		"repo-chunk-prompt":       {"Code", "RepoName"},
		"repo-merge-system":       {"ProjectName", "RepoName"},
		"repo-merge-prompt":       {"Count", "RepoName", "Reports"},
		"composite-system":        nil,
		"composite-prompt":        {"Profile", "Reports"},
	}

	set, err := Load(AnalysisFile)
	require.NoError(t, err)
	assert.ElementsMatch(t, set.Keys(), keysOf(want))

	for key, placeholders := range want {
		t.Run(key, func(t *testing.T) {
			assert.Equal(t, placeholders, Placeholders(Analysis(key)))
		})
	}
}

func keysOf(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, Placeholders("{{.B}} and {{.A}} then {{.B}} again, {{ .C }} is not one"))
	assert.Nil(t, Placeholders("plain text"))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{
			name:     "fills every placeholder",
			template: "--- JOB REQUIREMENTS ---\n{{.JobRequirements}}\n--- RESUME ---\n{{.ResumeText}}",
			data:     map[string]string{"JobRequirements": "Go, Kubernetes", "ResumeText": "Jane Doe"},
			want:     "--- JOB REQUIREMENTS ---\nGo, Kubernetes\n--- RESUME ---\nJane Doe",
		},
		{
			name:     "no placeholders",
			template: "No placeholders here",
			data:     map[string]string{"Key": "Value"},
			want:     "No placeholders here",
		},
		{
			name:     "empty data leaves template alone",
			template: "Hello {{.Name}}",
			data:     map[string]string{},
			want:     "Hello {{.Name}}",
		},
		{
			name:     "empty value",
			template: "Requirements:\n{{.JobRequirements}}.",
			data:     map[string]string{"JobRequirements": ""},
			want:     "Requirements:\n.",
		},
		{
			name:     "values are not rescanned",
			template: "Repo {{.RepoName}}:\n{{.Code}}",
			data:     map[string]string{"RepoName": "demo", "Code": `tmpl := "{{.RepoName}}"`},
			want:     "Repo demo:\ntmpl := \"{{.RepoName}}\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}
