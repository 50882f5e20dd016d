package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/praneethvg/video-summarizer/internal/config"
	"github.com/praneethvg/video-summarizer/internal/downloader"
	"github.com/praneethvg/video-summarizer/internal/events"
	"github.com/praneethvg/video-summarizer/internal/pipeline"
	"github.com/praneethvg/video-summarizer/internal/store"
	"github.com/praneethvg/video-summarizer/internal/summarizer"
	"github.com/praneethvg/video-summarizer/internal/testsupport"
	"github.com/praneethvg/video-summarizer/internal/transcriber"
)

type fakeDownloader struct {
	captionsSRT string
	audioErr    error
}

func (f *fakeDownloader) Name() string { return "youtube" }

func (f *fakeDownloader) CanHandle(url string) bool {
	return strings.Contains(url, "youtube.com")
}

func (f *fakeDownloader) Info(ctx context.Context, url string) (*downloader.VideoInfo, error) {
	return &downloader.VideoInfo{
		ID:       "abc123",
		Title:    "Sample Talk",
		URL:      url,
		Provider: "youtube",
	}, nil
}

func (f *fakeDownloader) DownloadAudio(ctx context.Context, url, outputName string) (string, error) {
	if f.audioErr != nil {
		return "", f.audioErr
	}
	path := outputName + ".mp3"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (f *fakeDownloader) DownloadCaptions(ctx context.Context, url, outputName, lang string, preferManual bool) (string, error) {
	if f.captionsSRT == "" {
		return "", downloader.ErrNoCaptions
	}
	path := outputName + "." + lang + ".srt"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(f.captionsSRT), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (f *fakeDownloader) ListCaptions(ctx context.Context, url string) (*downloader.CaptionInventory, error) {
	return &downloader.CaptionInventory{}, nil
}

type fakeTranscriber struct {
	called bool
	err    error
}

func (f *fakeTranscriber) TranscribeFile(ctx context.Context, source, outputDir, language string) (transcriber.Result, error) {
	f.called = true
	if f.err != nil {
		return transcriber.Result{}, f.err
	}
	return transcriber.Result{Text: "whisper transcript text", Language: "en"}, nil
}

type fakeSummarizer struct {
	err error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, req summarizer.Request) (summarizer.Summary, error) {
	if f.err != nil {
		return summarizer.Summary{}, f.err
	}
	return summarizer.Summary{
		Text:      "the summary",
		WordCount: 2,
		Style:     req.Style,
		Length:    req.Length,
		Model:     "gpt-4o",
	}, nil
}

type harness struct {
	cfg        *config.Config
	store      *store.Store
	dispatcher *events.Dispatcher
	runner     *pipeline.Runner
	downloader *fakeDownloader
	whisper    *fakeTranscriber
	llm        *fakeSummarizer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	st := testsupport.MustOpenStore(t, cfg)
	dispatcher := events.NewDispatcher(nil)
	registry := downloader.NewRegistry()
	fd := &fakeDownloader{}
	if err := registry.Register(fd); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	ft := &fakeTranscriber{}
	fs := &fakeSummarizer{}
	runner, err := pipeline.NewRunner(pipeline.Options{
		Config:      cfg,
		Store:       st,
		Registry:    registry,
		Dispatcher:  dispatcher,
		Transcriber: ft,
		Summarizer:  fs,
	})
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	return &harness{
		cfg:        cfg,
		store:      st,
		dispatcher: dispatcher,
		runner:     runner,
		downloader: fd,
		whisper:    ft,
		llm:        fs,
	}
}

func (h *harness) observe(t *testing.T, eventType events.Type) *[]events.Envelope {
	t.Helper()
	var seen []events.Envelope
	err := h.dispatcher.Subscribe(eventType, events.HandlerFunc{
		HandlerName: "observer-" + string(eventType),
		Fn: func(ctx context.Context, env events.Envelope) error {
			seen = append(seen, env)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	return &seen
}

func TestProcessURLCompletesChain(t *testing.T) {
	h := newHarness(t)
	summaries := h.observe(t, events.TypeSummaryCreated)

	item, err := h.runner.ProcessURL(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if err != nil {
		t.Fatalf("ProcessURL failed: %v", err)
	}
	if item.Status != store.StatusCompleted {
		t.Fatalf("expected completed, got %q (%s)", item.Status, item.ErrorMessage)
	}
	if item.VideoID != "abc123" || item.Title != "Sample Talk" {
		t.Fatalf("unexpected item metadata: %+v", item)
	}
	if item.AudioPath == "" || item.TranscriptPath == "" || item.SummaryPath == "" {
		t.Fatalf("expected all artifact paths set: %+v", item)
	}
	if !h.whisper.called {
		t.Fatal("expected whisper fallback without captions")
	}

	transcript, err := os.ReadFile(item.TranscriptPath)
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	if string(transcript) != "whisper transcript text" {
		t.Fatalf("unexpected transcript: %q", transcript)
	}
	if len(*summaries) != 1 {
		t.Fatalf("expected one summary event, got %d", len(*summaries))
	}
	payload := (*summaries)[0].Payload.(events.SummaryCreated)
	if payload.ItemID != item.ID || payload.SummaryPath != item.SummaryPath {
		t.Fatalf("unexpected summary payload: %+v", payload)
	}
}

func TestProcessURLUsesCaptionsWhenAvailable(t *testing.T) {
	h := newHarness(t)
	h.downloader.captionsSRT = "1\n00:00:00,000 --> 00:00:02,000\nCaption transcript line.\n"
	transcripts := h.observe(t, events.TypeTranscriptGenerated)

	item, err := h.runner.ProcessURL(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if err != nil {
		t.Fatalf("ProcessURL failed: %v", err)
	}
	if item.Status != store.StatusCompleted {
		t.Fatalf("expected completed, got %q", item.Status)
	}
	if h.whisper.called {
		t.Fatal("expected captions path to skip whisper")
	}
	if len(*transcripts) != 1 {
		t.Fatalf("expected one transcript event, got %d", len(*transcripts))
	}
	payload := (*transcripts)[0].Payload.(events.TranscriptGenerated)
	if payload.CaptionSource != "captions" {
		t.Fatalf("expected captions source, got %q", payload.CaptionSource)
	}
}

func TestProcessURLRejectsUnknownSource(t *testing.T) {
	h := newHarness(t)
	_, err := h.runner.ProcessURL(context.Background(), "https://example.com/video")
	if !errors.Is(err, downloader.ErrNoDownloader) {
		t.Fatalf("expected ErrNoDownloader, got %v", err)
	}
}

func TestStageFailureMarksItemAndPublishesError(t *testing.T) {
	h := newHarness(t)
	h.llm.err = errors.New("model unavailable")
	errorsSeen := h.observe(t, events.TypeProcessingError)

	item, err := h.runner.ProcessURL(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if err == nil {
		t.Fatal("expected error from failed summarization")
	}
	if item.Status != store.StatusFailed {
		t.Fatalf("expected failed status, got %q", item.Status)
	}
	if !strings.Contains(item.ErrorMessage, "model unavailable") {
		t.Fatalf("expected error message recorded, got %q", item.ErrorMessage)
	}
	if len(*errorsSeen) != 1 {
		t.Fatalf("expected one processing error event, got %d", len(*errorsSeen))
	}
	payload := (*errorsSeen)[0].Payload.(events.ProcessingError)
	if payload.Stage != "summarize" {
		t.Fatalf("unexpected stage: %q", payload.Stage)
	}
}

func TestDownloadFailureStopsChain(t *testing.T) {
	h := newHarness(t)
	h.downloader.audioErr = errors.New("network down")
	transcripts := h.observe(t, events.TypeTranscriptGenerated)

	item, err := h.runner.ProcessURL(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if err == nil {
		t.Fatal("expected error from failed download")
	}
	if item.Status != store.StatusFailed {
		t.Fatalf("expected failed status, got %q", item.Status)
	}
	if len(*transcripts) != 0 {
		t.Fatalf("expected no transcript events, got %d", len(*transcripts))
	}
	if h.whisper.called {
		t.Fatal("transcriber must not run after download failure")
	}
}

func TestRunLockIsExclusive(t *testing.T) {
	h := newHarness(t)
	if err := h.runner.AcquireLock(); err != nil {
		t.Fatalf("AcquireLock failed: %v", err)
	}
	defer h.runner.ReleaseLock()

	other, err := pipeline.NewRunner(pipeline.Options{
		Config:      h.cfg,
		Store:       h.store,
		Registry:    downloader.NewRegistry(),
		Dispatcher:  events.NewDispatcher(nil),
		Transcriber: &fakeTranscriber{},
		Summarizer:  &fakeSummarizer{},
	})
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	if err := other.AcquireLock(); err == nil {
		other.ReleaseLock()
		t.Fatal("expected second lock acquisition to fail")
	}
}
