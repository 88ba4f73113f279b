package github

import (
	"strings"
	"time"
)

// Repo is the subset of repository metadata the analyzer uses.
type Repo struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Owner       Owner  `json:"owner"`
	UpdatedAt   string `json:"updated_at"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Fork        bool   `json:"fork"`
	Stars       int    `json:"stargazers_count"`
}

// Owner is the repository owner.
type Owner struct {
	Login string `json:"login"`
}

// Updated parses UpdatedAt. Unparseable timestamps yield the zero time.
func (r Repo) Updated() time.Time {
	t, err := time.Parse(time.RFC3339, r.UpdatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// OwnerLogin returns the owner login, falling back to the full_name prefix.
func (r Repo) OwnerLogin() string {
	if r.Owner.Login != "" {
		return r.Owner.Login
	}
	if owner, _, ok := strings.Cut(r.FullName, "/"); ok {
		return owner
	}
	return ""
}

type contentEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
	Size int    `json:"size"`
}

type fileContent struct {
	Path     string `json:"path"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}
