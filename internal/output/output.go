// Package output renders finished summaries to disk in the configured
// format.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Document is everything a rendered summary file carries besides the
// summary text itself.
type Document struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	VideoID     string    `json:"video_id"`
	Provider    string    `json:"provider"`
	Style       string    `json:"style"`
	Length      string    `json:"length"`
	Model       string    `json:"model"`
	WordCount   int       `json:"word_count"`
	GeneratedAt time.Time `json:"generated_at"`
	Summary     string    `json:"summary"`
}

// Extension maps a format to its file extension, defaulting to text.
func Extension(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "markdown":
		return ".md"
	case "json":
		return ".json"
	default:
		return ".txt"
	}
}

// Write renders the document into dir under baseName plus the format's
// extension and returns the path written.
func Write(dir, baseName, format string, doc Document) (string, error) {
	if baseName == "" {
		return "", fmt.Errorf("output: base name required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("output: ensure dir: %w", err)
	}
	if doc.GeneratedAt.IsZero() {
		doc.GeneratedAt = time.Now().UTC()
	}

	var content []byte
	var err error
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "markdown":
		content = []byte(renderMarkdown(doc))
	case "json":
		content, err = json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", fmt.Errorf("output: encode json: %w", err)
		}
		content = append(content, '\n')
	default:
		content = []byte(renderText(doc))
	}

	path := filepath.Join(dir, baseName+Extension(format))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("output: write %s: %w", path, err)
	}
	return path, nil
}

func renderText(doc Document) string {
	var b strings.Builder
	if doc.Title != "" {
		b.WriteString(doc.Title + "\n")
		b.WriteString(strings.Repeat("=", len(doc.Title)) + "\n\n")
	}
	if doc.URL != "" {
		fmt.Fprintf(&b, "Source: %s\n", doc.URL)
	}
	fmt.Fprintf(&b, "Generated: %s\n", doc.GeneratedAt.Format(time.RFC3339))
	if doc.Style != "" {
		fmt.Fprintf(&b, "Style: %s\n", doc.Style)
	}
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(doc.Summary))
	b.WriteString("\n")
	return b.String()
}

func renderMarkdown(doc Document) string {
	var b strings.Builder
	title := doc.Title
	if title == "" {
		title = "Video Summary"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if doc.URL != "" {
		fmt.Fprintf(&b, "- **Source:** <%s>\n", doc.URL)
	}
	fmt.Fprintf(&b, "- **Generated:** %s\n", doc.GeneratedAt.Format(time.RFC3339))
	if doc.Style != "" {
		fmt.Fprintf(&b, "- **Style:** %s\n", doc.Style)
	}
	if doc.Model != "" {
		fmt.Fprintf(&b, "- **Model:** %s\n", doc.Model)
	}
	b.WriteString("\n## Summary\n\n")
	b.WriteString(strings.TrimSpace(doc.Summary))
	b.WriteString("\n")
	return b.String()
}
