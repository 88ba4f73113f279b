package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/schemas"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		configPath = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadResume(t *testing.T) {
	text, err := readResume(writeFile(t, "resume.md", "# Jane Doe\nGitHub: jdoe\n"))
	require.NoError(t, err)
	assert.Equal(t, "# Jane Doe\nGitHub: jdoe\n", text)

	_, err = readResume(writeFile(t, "photo.png", "\x89PNG\r\n\x1a\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")

	_, err = readResume(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	valid := writeFile(t, "report.json", `{"candidate_name":"Jane","revised_job_fit":{"updated_score":72}}`)
	out, err := execute(t, "validate", "--schema", schemas.CompositeAnalysisReport, "--file", valid)
	require.NoError(t, err)
	assert.Contains(t, out, "is a valid")

	invalid := writeFile(t, "report.json", `{"revised_job_fit":{"updated_score":"high"}}`)
	_, err = execute(t, "validate", "--schema", schemas.CompositeAnalysisReport, "--file", invalid)
	assert.Error(t, err)
}

func TestAnalyzeCommand_RequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("RESUME_API_KEY", "")

	resume := writeFile(t, "resume.txt", "Jane Doe")
	_, err := execute(t, "analyze", "--resume", resume)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestBootstrap_InvalidConfig(t *testing.T) {
	cfgFile := writeFile(t, "config.yaml", "max_repos: 50\n")
	_, err := execute(t, "find-github", "--config", cfgFile, "--resume", writeFile(t, "resume.txt", "Jane"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_repos")
}

func TestBootstrap_FlagsOverrideConfig(t *testing.T) {
	configPath = writeFile(t, "config.yaml", "debug: false\nport: 9000\n")
	t.Cleanup(func() { configPath = "" })

	require.NoError(t, serveCmd.Flags().Set("port", "9100"))
	t.Cleanup(func() {
		_ = serveCmd.Flags().Set("port", "8080")
		serveCmd.Flags().Lookup("port").Changed = false
	})

	cfg, log, err := bootstrap(serveCmd)
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Equal(t, 9100, cfg.Port)
	assert.False(t, cfg.Debug)
}
