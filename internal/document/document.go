// Package document converts uploaded résumé files to plain text.
package document

import (
	"bytes"
	"fmt"
	"html"
	"mime"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported MIME types.
const (
	MIMEPlain = "text/plain"
	MIMEPDF   = "application/pdf"
	MIMEDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// UnsupportedTypeError is returned for files that are not plain text, PDF or DOCX.
type UnsupportedTypeError struct {
	MIME string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.MIME)
}

// ReadError is returned when a file of a supported type cannot be parsed.
type ReadError struct {
	MIME  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("malformed %s file: %v", e.MIME, e.Cause)
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}

// ExtractText returns the text of data, interpreted as mimeType. Unknown types yield an
// *UnsupportedTypeError and unparseable files a *ReadError.
func ExtractText(mimeType string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch mediaType(mimeType) {
	case MIMEPlain, "text/markdown":
		return string(data), nil
	case MIMEPDF:
		text, err = extractPDFText(data)
	case MIMEDOCX:
		text, err = extractDocxText(data)
	default:
		return "", &UnsupportedTypeError{MIME: mimeType}
	}
	if err != nil {
		return "", &ReadError{MIME: mediaType(mimeType), Cause: err}
	}
	return text, nil
}

// DetectType returns the MIME type of an upload, preferring the file extension and
// falling back to content sniffing.
func DetectType(filename string, data []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return MIMEPDF
	case ".docx":
		return MIMEDOCX
	case ".txt", ".md":
		return MIMEPlain
	}
	return mediaType(http.DetectContentType(data))
}

func mediaType(mimeType string) string {
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mimeType))
	}
	return mt
}

func extractPDFText(data []byte) (text string, err error) {
	// The PDF reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

var (
	paragraphEndRe = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:tab\s*/>`)
	xmlTagRe       = regexp.MustCompile(`<[^>]+>`)
)

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	return xmlToText(doc.Editable().GetContent()), nil
}

// xmlToText reduces WordprocessingML to one line per paragraph.
func xmlToText(content string) string {
	content = paragraphEndRe.ReplaceAllStringFunc(content, func(tag string) string {
		if strings.HasPrefix(tag, "<w:tab") {
			return "\t"
		}
		return "\n"
	})
	content = html.UnescapeString(xmlTagRe.ReplaceAllString(content, ""))

	lines := strings.Split(content, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
