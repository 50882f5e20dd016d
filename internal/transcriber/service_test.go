package transcriber_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/praneethvg/video-summarizer/internal/config"
	"github.com/praneethvg/video-summarizer/internal/transcriber"
)

func TestTranscribeFileLoadsWhisperOutput(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "talk.mp3")
	if err := os.WriteFile(audio, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	svc := transcriber.NewService(config.Whisper{Model: "base"}, "")
	var gotArgs []string
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotArgs = args
		payload := `{"text": " Hello world. ", "language": "en", "segments": []}`
		return os.WriteFile(filepath.Join(dir, "talk.json"), []byte(payload), 0o644)
	})

	result, err := svc.TranscribeFile(context.Background(), audio, dir, "en")
	if err != nil {
		t.Fatalf("TranscribeFile failed: %v", err)
	}
	if result.Text != "Hello world." {
		t.Fatalf("unexpected text: %q", result.Text)
	}
	if result.Language != "en" {
		t.Fatalf("unexpected language: %q", result.Language)
	}

	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{"--model base", "--output_format json", "--language en"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in args %q", want, joined)
		}
	}
}

func TestTranscribeFileJoinsSegmentsWhenTextEmpty(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "talk.mp3")
	if err := os.WriteFile(audio, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	svc := transcriber.NewService(config.Whisper{}, "")
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		payload := `{"text": "", "language": "de", "segments": [{"text": " erste "}, {"text": "zweite"}]}`
		return os.WriteFile(filepath.Join(dir, "talk.json"), []byte(payload), 0o644)
	})

	result, err := svc.TranscribeFile(context.Background(), audio, dir, "")
	if err != nil {
		t.Fatalf("TranscribeFile failed: %v", err)
	}
	if result.Text != "erste zweite" {
		t.Fatalf("unexpected text: %q", result.Text)
	}
}

func TestTranscribeFileRequiresSource(t *testing.T) {
	svc := transcriber.NewService(config.Whisper{}, "")
	if _, err := svc.TranscribeFile(context.Background(), "", t.TempDir(), ""); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestTranscriptFromSRT(t *testing.T) {
	srt := `1
00:00:00,000 --> 00:00:02,000
<i>Welcome to the talk.</i>

2
00:00:02,000 --> 00:00:04,000
Welcome to the talk.

3
00:00:04,000 --> 00:00:06,000
Today we cover plugins.
`
	path := filepath.Join(t.TempDir(), "talk.en.srt")
	if err := os.WriteFile(path, []byte(srt), 0o644); err != nil {
		t.Fatalf("write srt: %v", err)
	}

	text, err := transcriber.TranscriptFromSRT(path)
	if err != nil {
		t.Fatalf("TranscriptFromSRT failed: %v", err)
	}
	want := "Welcome to the talk. Today we cover plugins."
	if text != want {
		t.Fatalf("unexpected transcript: %q", text)
	}
}

func TestTranscriptFromSRTMissingFile(t *testing.T) {
	if _, err := transcriber.TranscriptFromSRT(filepath.Join(t.TempDir(), "missing.srt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
