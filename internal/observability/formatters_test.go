package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-analyzer/internal/types"
)

func TestPrintCandidateProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	profile := types.NewCandidateProfile()
	profile.ResumeData.ContactInfo.Name = "Jane Doe"
	profile.ResumeData.ContactInfo.Github = "https://github.com/jdoe"
	profile.ResumeData.WorkExperience = []types.WorkExperience{{Company: "Acme", Title: "Backend Engineer"}}
	profile.ResumeData.Skills = []string{"Go", "PostgreSQL", "Kafka", "gRPC", "Docker", "Terraform", "AWS"}
	profile.JobFitAnalysis.OverallScore = 82
	profile.JobFitAnalysis.Weaknesses = []string{"No Kubernetes"}

	p.PrintCandidateProfile(&profile)
	output := buf.String()

	assert.Contains(t, output, "CANDIDATE PROFILE")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "82/100")
	assert.Contains(t, output, "Backend Engineer @ Acme")
	assert.Contains(t, output, "... and 2 more")
	assert.Contains(t, output, "No Kubernetes")
}

func TestPrintCandidateProfile_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintCandidateProfile(nil)
	assert.Empty(t, buf.String())
}

func TestPrintJobRequirements(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobRequirements("")
	assert.Empty(t, buf.String())

	p.PrintJobRequirements(strings.Repeat("- requirement\n", 12))
	assert.Contains(t, buf.String(), "JOB REQUIREMENTS")
	assert.Contains(t, buf.String(), "... and 2 more lines")
}

func TestPrintRepositoryReports(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	r := types.NewGithubAnalysisReport()
	r.ProjectPurpose = "Job board crawler"
	r.TechnologyStack = []string{"Go", "chromedp"}
	r.Stamp("crawler", "2024-05-01T10:00:00Z")

	p.PrintRepositoryReports([]types.GithubAnalysisReport{r})
	output := buf.String()

	assert.Contains(t, output, "REPOSITORY ANALYSIS")
	assert.Contains(t, output, "#1  crawler (2024-05-01T10:00:00Z)")
	assert.Contains(t, output, "Stack: Go, chromedp")
}

func TestPrintRepositoryReports_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRepositoryReports(nil)
	assert.Contains(t, buf.String(), "NO REPOSITORIES ANALYZED")
}

func TestPrintCompositeReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := types.NewCompositeAnalysisReport()
	report.CandidateName = "Jane Doe"
	report.RevisedJobFit.UpdatedScore = 88
	p.PrintCompositeReport(&report)
	assert.Contains(t, buf.String(), "88/100")
	assert.Contains(t, buf.String(), "No red flags")

	buf.Reset()
	report.RedFlags = []string{"Claimed Kubernetes experience has no repository evidence"}
	p.PrintCompositeReport(&report)
	assert.Contains(t, buf.String(), "Red flags")
	assert.NotContains(t, buf.String(), "No red flags")
}

func TestPrintBox_LinesFitWidth(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("가", 100)+"\nshort")

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
}
