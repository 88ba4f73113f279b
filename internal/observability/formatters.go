// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, shorten(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// shorten truncates s to at most n runes, marking the cut with "...".
func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// writeList writes up to limit items under heading, followed by a remainder count.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	for _, item := range items[:min(len(items), limit)] {
		sb.WriteString(fmt.Sprintf("  • %s\n", shorten(item, 50)))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

// PrintJobRequirements outputs the first lines of the extracted job requirements.
func (p *Printer) PrintJobRequirements(requirements string) {
	requirements = strings.TrimSpace(requirements)
	if requirements == "" {
		return
	}

	lines := strings.Split(requirements, "\n")
	var sb strings.Builder
	for _, line := range lines[:min(len(lines), 10)] {
		sb.WriteString(line + "\n")
	}
	if len(lines) > 10 {
		sb.WriteString(fmt.Sprintf("... and %d more lines\n", len(lines)-10))
	}

	p.printBox("JOB REQUIREMENTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidateProfile outputs the parsed résumé and the initial job fit.
func (p *Printer) PrintCandidateProfile(profile *types.CandidateProfile) {
	if profile == nil {
		return
	}

	resume := profile.ResumeData
	fit := profile.JobFitAnalysis

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", resume.ContactInfo.Name))
	if resume.ContactInfo.Github != "" {
		sb.WriteString(fmt.Sprintf("GitHub:   %s\n", resume.ContactInfo.Github))
	}
	sb.WriteString(fmt.Sprintf("Score:    %d/100\n", fit.OverallScore))
	if fit.MatchSummary != "" {
		sb.WriteString(fmt.Sprintf("Summary:  %s\n", fit.MatchSummary))
	}
	sb.WriteString("\n")

	if len(resume.WorkExperience) > 0 {
		var jobs []string
		for _, w := range resume.WorkExperience {
			jobs = append(jobs, fmt.Sprintf("%s @ %s", w.Title, w.Company))
		}
		writeList(&sb, "Experience", jobs, 3)
	}
	writeList(&sb, "Skills", resume.Skills, maxItemsToShow)
	writeList(&sb, "Strengths", fit.Strengths, 3)
	writeList(&sb, "Weaknesses", fit.Weaknesses, 3)

	p.printBox("CANDIDATE PROFILE", strings.TrimRight(sb.String(), "\n"))
}

// PrintRepositoryReports outputs one line block per analyzed repository.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRepositoryReports(reports []types.GithubAnalysisReport) {
	if len(reports) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO REPOSITORIES ANALYZED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Analyzed %d repositories:\n\n", len(reports)))

	count := min(len(reports), maxItemsToShow)
	for i, r := range reports[:count] {
		sb.WriteString(fmt.Sprintf("#%d  %s (%s)\n", i+1, r.RepoName, r.RepoDate))
		if r.ProjectPurpose != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", r.ProjectPurpose))
		}
		if len(r.TechnologyStack) > 0 {
			sb.WriteString(fmt.Sprintf("    Stack: %s\n", strings.Join(r.TechnologyStack, ", ")))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(reports) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more repositories", len(reports)-maxItemsToShow))
	}

	p.printBox("REPOSITORY ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCompositeReport outputs the final evaluation.
func (p *Printer) PrintCompositeReport(report *types.CompositeAnalysisReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate: %s\n", report.CandidateName))
	sb.WriteString(fmt.Sprintf("Revised:   %d/100\n", report.RevisedJobFit.UpdatedScore))
	if report.RevisedJobFit.Justification != "" {
		sb.WriteString(fmt.Sprintf("Why:       %s\n", report.RevisedJobFit.Justification))
	}
	sb.WriteString("\n")
	if report.OverallAssessment != "" {
		sb.WriteString(report.OverallAssessment + "\n\n")
	}

	if len(report.RedFlags) == 0 {
		sb.WriteString("✅ No red flags\n")
	} else {
		writeList(&sb, "⚠ Red flags", report.RedFlags, maxItemsToShow)
	}

	p.printBox("COMPOSITE ANALYSIS", strings.TrimRight(sb.String(), "\n"))
}
