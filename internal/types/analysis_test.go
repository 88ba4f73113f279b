package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_RenderEmptyLists(t *testing.T) {
	tests := []struct {
		name   string
		record any
		want   []string
	}{
		{
			name:   "candidate profile",
			record: NewCandidateProfile(),
			want:   []string{`"skills":[]`, `"work_experience":[]`, `"strengths":[]`, `"overall_score":0`},
		},
		{
			name:   "github report",
			record: NewGithubAnalysisReport(),
			want:   []string{`"core_functionality":[]`, `"improvement_suggestions":[]`, `"repo_name":""`},
		},
		{
			name:   "composite report",
			record: NewCompositeAnalysisReport(),
			want:   []string{`"red_flags":[]`, `"updated_score":0`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.record)
			require.NoError(t, err)
			for _, fragment := range tt.want {
				assert.Contains(t, string(data), fragment)
			}
			assert.NotContains(t, string(data), "null")
		})
	}
}

func TestCandidateProfile_NormalizeNested(t *testing.T) {
	p := CandidateProfile{
		ResumeData: ResumeData{
			WorkExperience: []WorkExperience{{Company: "Acme"}},
			Projects:       []Project{{Name: "tool"}},
		},
	}
	p.Normalize()

	assert.NotNil(t, p.ResumeData.WorkExperience[0].Achievements)
	assert.NotNil(t, p.ResumeData.Projects[0].TechStack)
	assert.Equal(t, "Acme", p.ResumeData.WorkExperience[0].Company)
}

func TestGithubAnalysisReport_Stamp(t *testing.T) {
	r := GithubAnalysisReport{ProjectName: "x", RepoName: "from-model", RepoDate: "yesterday"}
	r.Stamp("real-repo", "2024-03-01T10:00:00Z")

	assert.Equal(t, "real-repo", r.RepoName)
	assert.Equal(t, "2024-03-01T10:00:00Z", r.RepoDate)
	assert.Equal(t, "x", r.ProjectName)
}

func TestSchemaNames(t *testing.T) {
	var records = []Record{&CandidateProfile{}, &GithubAnalysisReport{}, &CompositeAnalysisReport{}}
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.SchemaName())
	}
	assert.Equal(t, []string{"candidate_profile", "github_analysis_report", "composite_analysis_report"}, names)
}
