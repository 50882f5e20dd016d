package config

import (
	"errors"
	"fmt"
)

var validWhisperModels = map[string]struct{}{
	"tiny":   {},
	"base":   {},
	"small":  {},
	"medium": {},
	"large":  {},
}

var validSummaryStyles = map[string]struct{}{
	"comprehensive": {},
	"bullet_points": {},
	"key_points":    {},
	"structured":    {},
}

var validSummaryLengths = map[string]struct{}{
	"short":  {},
	"medium": {},
	"long":   {},
}

var validSummaryFormats = map[string]struct{}{
	"text":     {},
	"markdown": {},
	"json":     {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWhisper(); err != nil {
		return err
	}
	if err := c.validateSummary(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

// ValidateForSummarization checks the settings that only matter once a
// summary request is actually issued. Kept separate from Validate so
// commands that never call the API (plugins, captions) work without a key.
func (c *Config) ValidateForSummarization() error {
	if c.OpenAI.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/video-summarizer/config.toml"
		}
		return fmt.Errorf("openai.api_key is required. Set OPENAI_API_KEY env var or edit %s (create with 'vidsum config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateWhisper() error {
	if _, ok := validWhisperModels[c.Whisper.Model]; !ok {
		return fmt.Errorf("whisper.model: unknown model %q (tiny, base, small, medium, large)", c.Whisper.Model)
	}
	if c.Whisper.BatchSize <= 0 {
		return errors.New("whisper.batch_size must be positive")
	}
	return nil
}

func (c *Config) validateSummary() error {
	if _, ok := validSummaryStyles[c.Summary.Style]; !ok {
		return fmt.Errorf("summary.style: unknown style %q", c.Summary.Style)
	}
	if _, ok := validSummaryLengths[c.Summary.Length]; !ok {
		return fmt.Errorf("summary.length: unknown length %q", c.Summary.Length)
	}
	if _, ok := validSummaryFormats[c.Summary.Format]; !ok {
		return fmt.Errorf("summary.format: unknown format %q", c.Summary.Format)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}
