package fetch

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// invisibleSelectors never contribute visible text.
const invisibleSelectors = "script, style, noscript, template, svg, iframe"

// ExtractMainText returns the visible text of the first element matching one of
// contentSelectors, after removing noiseSelectors. It falls back to the body.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := parse(html, noiseSelectors)
	if err != nil {
		return "", err
	}
	return cleanWhitespace(mainSelection(doc, contentSelectors).Text()), nil
}

// ToMarkdown converts the main content of html to markdown, keeping headings and lists
// that plain text extraction flattens.
func ToMarkdown(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := parse(html, noiseSelectors)
	if err != nil {
		return "", err
	}
	inner, err := mainSelection(doc, contentSelectors).Html()
	if err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}
	md, err := htmltomarkdown.ConvertString(inner)
	if err != nil {
		return "", fmt.Errorf("failed to convert to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

func parse(html string, noiseSelectors []string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find(invisibleSelectors).Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}
	return doc, nil
}

func mainSelection(doc *goquery.Document, contentSelectors []string) *goquery.Selection {
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			return selection.First()
		}
	}
	return doc.Find("body")
}

// cleanWhitespace trims every line and drops blank ones.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
