package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextLink(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{
			"next and last",
			`<https://api.github.com/user/1/repos?page=2>; rel="next", <https://api.github.com/user/1/repos?page=5>; rel="last"`,
			"https://api.github.com/user/1/repos?page=2",
		},
		{
			"last page has only prev",
			`<https://api.github.com/user/1/repos?page=4>; rel="prev", <https://api.github.com/user/1/repos?page=1>; rel="first"`,
			"",
		},
		{
			"multiple rel values",
			`<https://example.com/p2>; rel="next last"`,
			"https://example.com/p2",
		},
		{"malformed target", `https://example.com/p2; rel="next"`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextLink(tt.header))
		})
	}
}
