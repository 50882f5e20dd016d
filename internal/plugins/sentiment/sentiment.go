// Package sentiment is a processor plugin that scores transcripts and
// summaries with a keyword lexicon and writes a sidecar report next to the
// analyzed file.
package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/praneethvg/video-summarizer/internal/events"
	"github.com/praneethvg/video-summarizer/internal/logging"
	"github.com/praneethvg/video-summarizer/internal/plugin"
)

// Descriptor identifies this plugin in the registration table.
var Descriptor = plugin.Descriptor{
	Name:        "sentiment",
	Version:     "1.0.0",
	Description: "Keyword sentiment scoring for transcripts and summaries",
	Author:      "video-summarizer",
	Kind:        plugin.KindProcessor,
	EntryPoint:  "sentiment.New",
}

var positiveWords = map[string]struct{}{
	"good": {}, "great": {}, "excellent": {}, "amazing": {}, "love": {},
	"best": {}, "happy": {}, "positive": {}, "success": {}, "successful": {},
	"win": {}, "wonderful": {}, "helpful": {}, "improve": {}, "improved": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "terrible": {}, "awful": {}, "hate": {}, "worst": {},
	"sad": {}, "negative": {}, "fail": {}, "failure": {}, "problem": {},
	"broken": {}, "wrong": {}, "difficult": {}, "worse": {}, "poor": {},
}

// Report is the JSON sidecar written next to each analyzed file.
type Report struct {
	Source    string  `json:"source"`
	Score     float64 `json:"score"`
	Label     string  `json:"label"`
	Positive  int     `json:"positive"`
	Negative  int     `json:"negative"`
	WordCount int     `json:"word_count"`
}

// Plugin analyzes transcript and summary files as their events arrive.
type Plugin struct {
	logger *slog.Logger
	// Scores with absolute value below the threshold are labeled neutral.
	threshold float64
}

// New is the plugin factory. Settings: "threshold" (float, default 0.05).
func New(deps plugin.Deps, settings map[string]any) (plugin.Plugin, error) {
	p := &Plugin{
		logger:    logging.WithComponent(orNop(deps.Logger), "sentiment"),
		threshold: 0.05,
	}
	if raw, ok := settings["threshold"]; ok {
		threshold, ok := toFloat(raw)
		if !ok || threshold < 0 || threshold > 1 {
			return nil, fmt.Errorf("sentiment: invalid threshold %v", raw)
		}
		p.threshold = threshold
	}
	return p, nil
}

func orNop(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return logging.NopLogger()
	}
	return logger
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func (p *Plugin) Info() plugin.Descriptor { return Descriptor }

func (p *Plugin) SubscribedEvents() []events.Type {
	return []events.Type{events.TypeTranscriptGenerated, events.TypeSummaryCreated}
}

func (p *Plugin) Handle(ctx context.Context, env events.Envelope) error {
	var path string
	switch payload := env.Payload.(type) {
	case events.TranscriptGenerated:
		path = payload.TranscriptPath
	case events.SummaryCreated:
		path = payload.SummaryPath
	default:
		return nil
	}
	if path == "" {
		return nil
	}

	report, err := p.analyzeFile(path)
	if err != nil {
		return fmt.Errorf("sentiment: analyze %s: %w", path, err)
	}
	reportPath := path + ".sentiment.json"
	if err := writeReport(reportPath, report); err != nil {
		return fmt.Errorf("sentiment: write report: %w", err)
	}
	p.logger.Info("sentiment scored",
		slog.String("source", path),
		slog.String("label", report.Label),
		slog.Float64("score", report.Score))
	return nil
}

func (p *Plugin) analyzeFile(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, err
	}
	return p.Analyze(path, string(data)), nil
}

// Analyze scores text against the lexicon. The score is the signed fraction
// of sentiment-bearing words over all words, in [-1, 1].
func (p *Plugin) Analyze(source, text string) Report {
	words := strings.Fields(strings.ToLower(text))
	report := Report{Source: source, WordCount: len(words)}
	for _, word := range words {
		word = strings.Trim(word, ".,!?;:\"'()")
		if _, ok := positiveWords[word]; ok {
			report.Positive++
		} else if _, ok := negativeWords[word]; ok {
			report.Negative++
		}
	}
	if report.WordCount > 0 {
		report.Score = float64(report.Positive-report.Negative) / float64(report.WordCount)
	}
	switch {
	case report.Score >= p.threshold:
		report.Label = "positive"
	case report.Score <= -p.threshold:
		report.Label = "negative"
	default:
		report.Label = "neutral"
	}
	return report
}

func writeReport(path string, report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
