// Package types defines the records produced by the analysis pipeline and the inbound
// request types of the HTTP surface.
//
// Every record field is optional: a zero value is the default. Normalize replaces nil
// lists with empty ones so serialized records always render [] rather than null.
package types

// ContactInfo holds the candidate's contact details as written on the résumé.
type ContactInfo struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Github    string `json:"github"`
	Portfolio string `json:"portfolio"`
}

// WorkExperience is one employment entry.
type WorkExperience struct {
	Company      string   `json:"company"`
	Title        string   `json:"title"`
	Period       string   `json:"period"`
	Achievements []string `json:"achievements"`
}

// Project is one project entry listed on the résumé.
type Project struct {
	Name        string   `json:"name"`
	Period      string   `json:"period"`
	Description string   `json:"description"`
	Role        string   `json:"role"`
	TechStack   []string `json:"tech_stack"`
}

// Education is one education entry.
type Education struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	Major          string `json:"major"`
	GraduationYear string `json:"graduation_year"`
}

// ResumeData is the structured form of the résumé text.
type ResumeData struct {
	ContactInfo    ContactInfo      `json:"contact_info"`
	Summary        string           `json:"summary"`
	WorkExperience []WorkExperience `json:"work_experience"`
	Skills         []string         `json:"skills"`
	Projects       []Project        `json:"projects"`
	Education      []Education      `json:"education"`
}

// JobFitAnalysis scores the résumé against the job requirements.
// OverallScore is documented as 0-100 but is not clamped.
type JobFitAnalysis struct {
	OverallScore int      `json:"overall_score"`
	MatchSummary string   `json:"match_summary"`
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
}

// CandidateProfile is the output of the résumé fit analysis.
type CandidateProfile struct {
	ResumeData     ResumeData     `json:"resume_data"`
	JobFitAnalysis JobFitAnalysis `json:"job_fit_analysis"`
}

// GithubAnalysisReport is the analysis of one repository. RepoName and RepoDate always
// come from repository metadata, never from the generated text.
type GithubAnalysisReport struct {
	ProjectName            string   `json:"project_name"`
	ProjectPurpose         string   `json:"project_purpose"`
	CoreFunctionality      []string `json:"core_functionality"`
	ArchitectureDesign     string   `json:"architecture_design"`
	CodeQualityAssessment  string   `json:"code_quality_assessment"`
	TechnologyStack        []string `json:"technology_stack"`
	Strengths              []string `json:"strengths"`
	Weaknesses             []string `json:"weaknesses"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
	RepoName               string   `json:"repo_name"`
	RepoDate               string   `json:"repo_date"`
}

// EvidenceBasedAnalysis cross-validates résumé claims against repository evidence.
type EvidenceBasedAnalysis struct {
	StrengthValidation              string `json:"strength_validation"`
	GapMitigationPotential          string `json:"gap_mitigation_potential"`
	LearningAgility                 string `json:"learning_agility"`
	TechnicalDepthAndProblemSolving string `json:"technical_depth_and_problem_solving"`
}

// RevisedJobFit is the fit score after repository evidence was considered.
type RevisedJobFit struct {
	UpdatedScore  int    `json:"updated_score"`
	Justification string `json:"justification"`
}

// CompositeAnalysisReport is the final output of one analysis run.
type CompositeAnalysisReport struct {
	CandidateName         string                `json:"candidate_name"`
	OverallAssessment     string                `json:"overall_assessment"`
	EvidenceBasedAnalysis EvidenceBasedAnalysis `json:"evidence_based_analysis"`
	RevisedJobFit         RevisedJobFit         `json:"revised_job_fit"`
	RedFlags              []string              `json:"red_flags"`
}

// Record is implemented by every generated record.
type Record interface {
	Normalize()
	SchemaName() string
}

func (p *CandidateProfile) SchemaName() string        { return "candidate_profile" }
func (r *GithubAnalysisReport) SchemaName() string    { return "github_analysis_report" }
func (c *CompositeAnalysisReport) SchemaName() string { return "composite_analysis_report" }

// Normalize replaces nil lists with empty lists.
func (p *CandidateProfile) Normalize() {
	r := &p.ResumeData
	r.Skills = emptyIfNil(r.Skills)
	if r.WorkExperience == nil {
		r.WorkExperience = []WorkExperience{}
	}
	for i := range r.WorkExperience {
		r.WorkExperience[i].Achievements = emptyIfNil(r.WorkExperience[i].Achievements)
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	for i := range r.Projects {
		r.Projects[i].TechStack = emptyIfNil(r.Projects[i].TechStack)
	}
	if r.Education == nil {
		r.Education = []Education{}
	}

	f := &p.JobFitAnalysis
	f.Strengths = emptyIfNil(f.Strengths)
	f.Weaknesses = emptyIfNil(f.Weaknesses)
}

// Normalize replaces nil lists with empty lists.
func (r *GithubAnalysisReport) Normalize() {
	r.CoreFunctionality = emptyIfNil(r.CoreFunctionality)
	r.TechnologyStack = emptyIfNil(r.TechnologyStack)
	r.Strengths = emptyIfNil(r.Strengths)
	r.Weaknesses = emptyIfNil(r.Weaknesses)
	r.ImprovementSuggestions = emptyIfNil(r.ImprovementSuggestions)
}

// Normalize replaces nil lists with empty lists.
func (c *CompositeAnalysisReport) Normalize() {
	c.RedFlags = emptyIfNil(c.RedFlags)
}

// Stamp overwrites the repository identity fields from metadata.
func (r *GithubAnalysisReport) Stamp(repoName, repoDate string) {
	r.RepoName = repoName
	r.RepoDate = repoDate
}

// NewCandidateProfile returns a normalized default profile.
func NewCandidateProfile() CandidateProfile {
	var p CandidateProfile
	p.Normalize()
	return p
}

// NewGithubAnalysisReport returns a normalized default report.
func NewGithubAnalysisReport() GithubAnalysisReport {
	var r GithubAnalysisReport
	r.Normalize()
	return r
}

// NewCompositeAnalysisReport returns a normalized default report.
func NewCompositeAnalysisReport() CompositeAnalysisReport {
	var c CompositeAnalysisReport
	c.Normalize()
	return c
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
