// Package prompts holds the embedded prompt templates for every generative call.
// Templates live in JSON files keyed by prompt name and use {{.Key}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// AnalysisFile is the prompt file used by the analysis pipeline.
const AnalysisFile = "analysis.json"

var placeholderRe = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

// Set is one prompt file, keyed by prompt name.
type Set map[string]string

// Load reads and parses an embedded prompt file. Empty prompts are rejected.
func Load(filename string) (Set, error) {
	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}
	for key, prompt := range set {
		if strings.TrimSpace(prompt) == "" {
			return nil, fmt.Errorf("prompt %q in %s is empty", key, filename)
		}
	}
	return set, nil
}

// Get returns the prompt stored under key.
func (s Set) Get(key string) (string, error) {
	prompt, ok := s[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found", key)
	}
	return prompt, nil
}

// Keys returns the prompt names in sorted order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

var analysisSet = sync.OnceValues(func() (Set, error) {
	return Load(AnalysisFile)
})

// Analysis returns a prompt from AnalysisFile. The file is embedded, so a missing key is a
// programming error and panics.
func Analysis(key string) string {
	set, err := analysisSet()
	if err != nil {
		panic(fmt.Sprintf("failed to load prompts: %v", err))
	}
	prompt, err := set.Get(key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Placeholders lists the distinct placeholder names in template, sorted.
func Placeholders(template string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	sort.Strings(names)
	return names
}

// Format replaces {{.Key}} placeholders with values from data in a single pass,
// so placeholder-looking text inside substituted values is left alone.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
