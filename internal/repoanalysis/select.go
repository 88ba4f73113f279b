package repoanalysis

import (
	"slices"

	"github.com/jonathan/resume-analyzer/internal/github"
)

// DefaultMaxRepos is how many repositories are analyzed per user.
const DefaultMaxRepos = 10

// SelectTopRepos returns the n most recently updated repositories, newest first.
// Repositories with unparseable timestamps sort last. repos is not modified.
func SelectTopRepos(repos []github.Repo, n int) []github.Repo {
	if n <= 0 {
		return []github.Repo{}
	}
	sorted := slices.Clone(repos)
	slices.SortStableFunc(sorted, func(a, b github.Repo) int {
		return b.Updated().Compare(a.Updated())
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	if sorted == nil {
		sorted = []github.Repo{}
	}
	return sorted
}
