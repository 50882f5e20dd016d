package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOpenAI()
	c.normalizeWhisper()
	c.normalizeSummary()
	c.normalizeCaptions()
	c.normalizePlugins()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeOpenAI() {
	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	if c.OpenAI.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.OpenAI.APIKey = strings.TrimSpace(value)
		}
	}
	c.OpenAI.BaseURL = strings.TrimSpace(c.OpenAI.BaseURL)
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = defaultOpenAIBaseURL
	}
	c.OpenAI.Model = strings.TrimSpace(c.OpenAI.Model)
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = defaultOpenAIModel
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		c.OpenAI.TimeoutSeconds = defaultOpenAITimeoutSeconds
	}
}

func (c *Config) normalizeWhisper() {
	c.Whisper.Model = strings.ToLower(strings.TrimSpace(c.Whisper.Model))
	if c.Whisper.Model == "" {
		c.Whisper.Model = defaultWhisperModel
	}
	c.Whisper.Device = strings.ToLower(strings.TrimSpace(c.Whisper.Device))
	if c.Whisper.Device == "" {
		c.Whisper.Device = defaultWhisperDevice
	}
	c.Whisper.ComputeType = strings.ToLower(strings.TrimSpace(c.Whisper.ComputeType))
	if c.Whisper.ComputeType == "" {
		c.Whisper.ComputeType = defaultWhisperComputeType
	}
	if c.Whisper.BatchSize <= 0 {
		c.Whisper.BatchSize = defaultWhisperBatchSize
	}
}

func (c *Config) normalizeSummary() {
	c.Summary.Style = strings.ToLower(strings.TrimSpace(c.Summary.Style))
	if c.Summary.Style == "" {
		c.Summary.Style = defaultSummaryStyle
	}
	c.Summary.Length = strings.ToLower(strings.TrimSpace(c.Summary.Length))
	if c.Summary.Length == "" {
		c.Summary.Length = defaultSummaryLength
	}
	c.Summary.Format = strings.ToLower(strings.TrimSpace(c.Summary.Format))
	if c.Summary.Format == "" {
		c.Summary.Format = defaultSummaryFormat
	}
}

func (c *Config) normalizeCaptions() {
	c.Captions.Language = strings.ToLower(strings.TrimSpace(c.Captions.Language))
	if c.Captions.Language == "" {
		c.Captions.Language = defaultCaptionLanguage
	}
}

func (c *Config) normalizePlugins() {
	if len(c.Plugins.Enabled) == 0 {
		return
	}
	names := make([]string, 0, len(c.Plugins.Enabled))
	seen := make(map[string]struct{}, len(c.Plugins.Enabled))
	for _, name := range c.Plugins.Enabled {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		names = append(names, normalized)
	}
	c.Plugins.Enabled = names
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
