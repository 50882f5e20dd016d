package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/praneethvg/video-summarizer/internal/config"
	"github.com/praneethvg/video-summarizer/internal/services"
)

// Command is the default whisper binary name resolved from PATH.
const Command = "whisper"

// Service runs whisper over audio files. The command runner is injectable so
// tests can stub process execution.
type Service struct {
	cfg           config.Whisper
	binary        string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a transcription service with the given configuration.
func NewService(cfg config.Whisper, binary string) *Service {
	if binary == "" {
		binary = Command
	}
	return &Service{cfg: cfg, binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return "small"
}

// Result is a completed transcription.
type Result struct {
	Text     string
	Language string
	JSONPath string
}

// TranscribeFile runs whisper on the audio file and loads the transcript
// from its JSON output. language may be empty for auto-detection.
func (s *Service) TranscribeFile(ctx context.Context, source, outputDir, language string) (Result, error) {
	var result Result

	if source == "" {
		return result, services.Wrap(services.ErrValidation, "transcribe", "whisper", "source path required", nil)
	}
	if outputDir == "" {
		outputDir = filepath.Dir(source)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return result, services.Wrap(services.ErrConfiguration, "transcribe", "whisper", "ensure output dir", err)
	}

	args := s.buildArgs(source, outputDir, language)
	if err := s.run(ctx, s.binary, args...); err != nil {
		return result, err
	}

	baseName := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	result.JSONPath = filepath.Join(outputDir, baseName+".json")

	text, lang, err := loadTranscript(result.JSONPath)
	if err != nil {
		return result, services.Wrap(services.ErrExternalTool, "transcribe", "whisper", "load transcript", err)
	}
	result.Text = text
	result.Language = lang
	return result, nil
}

func (s *Service) buildArgs(source, outputDir, language string) []string {
	args := []string{
		source,
		"--model", s.Model(),
		"--output_dir", outputDir,
		"--output_format", "json",
		"--verbose", "False",
	}
	if s.cfg.Device != "" {
		args = append(args, "--device", s.cfg.Device)
	}
	if s.cfg.ComputeType != "" {
		args = append(args, "--fp16", strconv.FormatBool(s.cfg.ComputeType == "float16"))
	}
	if s.cfg.BatchSize > 0 {
		args = append(args, "--batch_size", strconv.Itoa(s.cfg.BatchSize))
	}
	if language != "" {
		args = append(args, "--language", language)
	}
	return args
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(output.String())
		if detail == "" {
			detail = err.Error()
		}
		return services.Wrap(services.ErrExternalTool, "transcribe", name, detail, err)
	}
	return nil
}

type whisperOutput struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Text string `json:"text"`
	} `json:"segments"`
}

// loadTranscript reads whisper's JSON output. When the top-level text is
// empty the segment texts are joined instead.
func loadTranscript(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return "", "", fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	text := strings.TrimSpace(out.Text)
	if text == "" {
		parts := make([]string, 0, len(out.Segments))
		for _, seg := range out.Segments {
			if trimmed := strings.TrimSpace(seg.Text); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		text = strings.Join(parts, " ")
	}
	return text, out.Language, nil
}
