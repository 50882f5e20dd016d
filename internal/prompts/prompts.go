// Package prompts renders the chat prompts used for summarization. Templates
// are embedded per style and parameterized with the transcript and the word
// budget derived from the configured summary length.
package prompts

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Word budgets per configured summary length.
const (
	ShortWords  = 150
	MediumWords = 300
	LongWords   = 500
)

// SystemPrompt is the shared system message for all summary styles.
const SystemPrompt = "You are an expert at summarizing video transcripts. " +
	"Work only from the transcript provided. Do not invent facts, speakers, " +
	"or sources. Respond with the summary text only."

// Request carries everything needed to render a user prompt.
type Request struct {
	Style      string
	Length     string
	Title      string
	Transcript string
}

type templateData struct {
	Title      string
	Transcript string
	WordLimit  int
}

// WordLimit maps a summary length to its word budget. Unknown lengths get
// the medium budget.
func WordLimit(length string) int {
	switch strings.ToLower(strings.TrimSpace(length)) {
	case "short":
		return ShortWords
	case "long":
		return LongWords
	default:
		return MediumWords
	}
}

// UserPrompt renders the style's template against the request.
func UserPrompt(req Request) (string, error) {
	style := strings.ToLower(strings.TrimSpace(req.Style))
	if style == "" {
		style = "comprehensive"
	}
	tmpl := templates.Lookup(style + ".tmpl")
	if tmpl == nil {
		return "", fmt.Errorf("prompts: unknown summary style %q", req.Style)
	}
	if strings.TrimSpace(req.Transcript) == "" {
		return "", fmt.Errorf("prompts: transcript required")
	}

	var out strings.Builder
	err := tmpl.Execute(&out, templateData{
		Title:      strings.TrimSpace(req.Title),
		Transcript: req.Transcript,
		WordLimit:  WordLimit(req.Length),
	})
	if err != nil {
		return "", fmt.Errorf("prompts: render %s: %w", style, err)
	}
	return out.String(), nil
}

// Styles lists the summary styles with an embedded template.
func Styles() []string {
	return []string{"bullet_points", "comprehensive", "key_points", "structured"}
}
