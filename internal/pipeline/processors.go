package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/praneethvg/video-summarizer/internal/config"
	"github.com/praneethvg/video-summarizer/internal/downloader"
	"github.com/praneethvg/video-summarizer/internal/events"
	"github.com/praneethvg/video-summarizer/internal/notifications"
	"github.com/praneethvg/video-summarizer/internal/output"
	"github.com/praneethvg/video-summarizer/internal/services"
	"github.com/praneethvg/video-summarizer/internal/store"
	"github.com/praneethvg/video-summarizer/internal/summarizer"
	"github.com/praneethvg/video-summarizer/internal/transcriber"
)

// Transcriber is the slice of the transcription service the pipeline needs.
type Transcriber interface {
	TranscribeFile(ctx context.Context, source, outputDir, language string) (transcriber.Result, error)
}

// Summarizer is the slice of the summarization client the pipeline needs.
type Summarizer interface {
	Summarize(ctx context.Context, req summarizer.Request) (summarizer.Summary, error)
}

type processorDeps struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *store.Store
	registry   *downloader.Registry
	dispatcher *events.Dispatcher
	notifier   notifications.Service
}

// fail records a stage failure on the item and publishes the processing
// error event. The original error is returned for the delivery report.
func (d processorDeps) fail(ctx context.Context, item *store.Item, stage string, err error) error {
	item.SetFailed(err.Error())
	if updateErr := d.store.Update(ctx, item); updateErr != nil {
		d.logger.Error("failed to persist failure",
			slog.Int64("item_id", item.ID),
			slog.String("error", updateErr.Error()))
	}
	d.dispatcher.Publish(ctx, events.NewEnvelope(events.TypeProcessingError, stage, events.ProcessingError{
		ItemID:  item.ID,
		Stage:   stage,
		Message: err.Error(),
	}))
	if notifyErr := d.notifier.NotifyError(ctx, err, stage); notifyErr != nil {
		d.logger.Warn("error notification failed", slog.String("error", notifyErr.Error()))
	}
	return err
}

func (d processorDeps) itemFor(ctx context.Context, itemID int64) (*store.Item, error) {
	item, err := d.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, services.Wrap(services.ErrNotFound, "pipeline", "lookup", fmt.Sprintf("item %d", itemID), nil)
	}
	return item, nil
}

// downloadProcessor turns discovery events into downloaded audio.
type downloadProcessor struct {
	processorDeps
}

func (p *downloadProcessor) Name() string { return "download" }

func (p *downloadProcessor) Handle(ctx context.Context, env events.Envelope) error {
	payload, ok := env.Payload.(events.VideoDiscovered)
	if !ok {
		return nil
	}

	item, err := p.resolveItem(ctx, payload)
	if err != nil {
		return err
	}
	ctx = services.WithItemID(ctx, item.ID)
	ctx = services.WithStage(ctx, "download")

	item.Status = store.StatusDownloading
	if err := p.store.Update(ctx, item); err != nil {
		return p.fail(ctx, item, "download", err)
	}

	d, err := p.registry.Resolve(item.URL)
	if err != nil {
		return p.fail(ctx, item, "download", err)
	}
	if item.VideoID == "" || item.Title == "" {
		info, err := d.Info(ctx, item.URL)
		if err != nil {
			return p.fail(ctx, item, "download", err)
		}
		item.VideoID = info.ID
		item.Title = info.Title
		item.Provider = info.Provider
	}

	audioPath, err := d.DownloadAudio(ctx, item.URL, filepath.Join(p.cfg.Paths.TempDir, item.VideoID))
	if err != nil {
		return p.fail(ctx, item, "download", err)
	}

	item.Status = store.StatusDownloaded
	item.AudioPath = audioPath
	if err := p.store.Update(ctx, item); err != nil {
		return p.fail(ctx, item, "download", err)
	}
	p.logger.Info("audio downloaded",
		slog.Int64("item_id", item.ID),
		slog.String("video_id", item.VideoID),
		slog.String("path", audioPath))
	if err := p.notifier.NotifyDownloadCompleted(ctx, item.Title); err != nil {
		p.logger.Warn("download notification failed", slog.String("error", err.Error()))
	}

	p.dispatcher.Publish(ctx, events.NewEnvelope(events.TypeVideoDownloaded, p.Name(), events.VideoDownloaded{
		ItemID:    item.ID,
		VideoID:   item.VideoID,
		Title:     item.Title,
		AudioPath: audioPath,
	}))
	return nil
}

// resolveItem loads the history item for the event, creating one when the
// discovery came from a provider plugin that has no store access.
func (p *downloadProcessor) resolveItem(ctx context.Context, payload events.VideoDiscovered) (*store.Item, error) {
	if payload.ItemID != 0 {
		item, err := p.itemFor(ctx, payload.ItemID)
		if err != nil {
			return nil, err
		}
		return item, nil
	}
	item, err := p.store.NewItem(ctx, payload.URL)
	if err != nil {
		return nil, err
	}
	item.VideoID = payload.VideoID
	item.Title = payload.Title
	item.Provider = payload.Provider
	return item, nil
}

// transcriptionProcessor prefers source captions and falls back to local
// whisper transcription.
type transcriptionProcessor struct {
	processorDeps
	transcriber Transcriber
}

func (p *transcriptionProcessor) Name() string { return "transcription" }

func (p *transcriptionProcessor) Handle(ctx context.Context, env events.Envelope) error {
	payload, ok := env.Payload.(events.VideoDownloaded)
	if !ok {
		return nil
	}
	item, err := p.itemFor(ctx, payload.ItemID)
	if err != nil {
		return err
	}
	ctx = services.WithItemID(ctx, item.ID)
	ctx = services.WithStage(ctx, "transcribe")

	item.Status = store.StatusTranscribing
	if err := p.store.Update(ctx, item); err != nil {
		return p.fail(ctx, item, "transcribe", err)
	}

	text, lang, source := p.fromCaptions(ctx, item)
	if text == "" {
		result, err := p.transcriber.TranscribeFile(ctx, payload.AudioPath, p.cfg.Paths.TempDir, p.cfg.Captions.Language)
		if err != nil {
			return p.fail(ctx, item, "transcribe", err)
		}
		text = result.Text
		lang = result.Language
		source = "whisper"
	}
	if strings.TrimSpace(text) == "" {
		return p.fail(ctx, item, "transcribe",
			services.Wrap(services.ErrExternalTool, "transcribe", "whisper", "empty transcript", nil))
	}

	transcriptPath := filepath.Join(p.cfg.Paths.OutputDir, item.VideoID+".txt")
	if err := os.MkdirAll(p.cfg.Paths.OutputDir, 0o755); err != nil {
		return p.fail(ctx, item, "transcribe", err)
	}
	if err := os.WriteFile(transcriptPath, []byte(text), 0o644); err != nil {
		return p.fail(ctx, item, "transcribe", err)
	}

	item.Status = store.StatusTranscribed
	item.TranscriptPath = transcriptPath
	item.Language = lang
	if err := p.store.Update(ctx, item); err != nil {
		return p.fail(ctx, item, "transcribe", err)
	}
	p.logger.Info("transcript ready",
		slog.Int64("item_id", item.ID),
		slog.String("source", source),
		slog.String("path", transcriptPath))
	if err := p.notifier.NotifyTranscriptReady(ctx, item.Title, source); err != nil {
		p.logger.Warn("transcript notification failed", slog.String("error", err.Error()))
	}

	p.dispatcher.Publish(ctx, events.NewEnvelope(events.TypeTranscriptGenerated, p.Name(), events.TranscriptGenerated{
		ItemID:         item.ID,
		VideoID:        item.VideoID,
		TranscriptPath: transcriptPath,
		Language:       lang,
		CaptionSource:  source,
	}))
	return nil
}

// fromCaptions attempts the captions path. Any failure here is soft: the
// whisper fallback still runs.
func (p *transcriptionProcessor) fromCaptions(ctx context.Context, item *store.Item) (string, string, string) {
	d, err := p.registry.Resolve(item.URL)
	if err != nil {
		return "", "", ""
	}
	lang := p.cfg.Captions.Language
	base := filepath.Join(p.cfg.Paths.TempDir, item.VideoID+".captions")
	srtPath, err := d.DownloadCaptions(ctx, item.URL, base, lang, p.cfg.Captions.PreferManual)
	if err != nil {
		if !errors.Is(err, downloader.ErrNoCaptions) {
			p.logger.Debug("caption fetch failed", slog.String("error", err.Error()))
		}
		return "", "", ""
	}
	text, err := transcriber.TranscriptFromSRT(srtPath)
	if err != nil || strings.TrimSpace(text) == "" {
		return "", "", ""
	}
	return text, lang, "captions"
}

// summarizationProcessor closes the chain by producing the summary file.
type summarizationProcessor struct {
	processorDeps
	summarizer Summarizer
}

func (p *summarizationProcessor) Name() string { return "summarization" }

func (p *summarizationProcessor) Handle(ctx context.Context, env events.Envelope) error {
	payload, ok := env.Payload.(events.TranscriptGenerated)
	if !ok {
		return nil
	}
	item, err := p.itemFor(ctx, payload.ItemID)
	if err != nil {
		return err
	}
	ctx = services.WithItemID(ctx, item.ID)
	ctx = services.WithStage(ctx, "summarize")

	item.Status = store.StatusSummarizing
	if err := p.store.Update(ctx, item); err != nil {
		return p.fail(ctx, item, "summarize", err)
	}

	transcript, err := os.ReadFile(payload.TranscriptPath)
	if err != nil {
		return p.fail(ctx, item, "summarize", err)
	}

	summary, err := p.summarizer.Summarize(ctx, summarizer.Request{
		Title:      item.Title,
		Transcript: string(transcript),
		Style:      p.cfg.Summary.Style,
		Length:     p.cfg.Summary.Length,
	})
	if err != nil {
		return p.fail(ctx, item, "summarize", err)
	}

	summaryPath, err := output.Write(p.cfg.Paths.OutputDir, item.VideoID+".summary", p.cfg.Summary.Format, output.Document{
		Title:     item.Title,
		URL:       item.URL,
		VideoID:   item.VideoID,
		Provider:  item.Provider,
		Style:     summary.Style,
		Length:    summary.Length,
		Model:     summary.Model,
		WordCount: summary.WordCount,
		Summary:   summary.Text,
	})
	if err != nil {
		return p.fail(ctx, item, "summarize", err)
	}

	item.Status = store.StatusCompleted
	item.SummaryPath = summaryPath
	if err := p.store.Update(ctx, item); err != nil {
		return p.fail(ctx, item, "summarize", err)
	}
	p.logger.Info("summary created",
		slog.Int64("item_id", item.ID),
		slog.String("path", summaryPath),
		slog.Int("words", summary.WordCount))
	if err := p.notifier.NotifySummaryCreated(ctx, item.Title, summaryPath); err != nil {
		p.logger.Warn("summary notification failed", slog.String("error", err.Error()))
	}

	p.dispatcher.Publish(ctx, events.NewEnvelope(events.TypeSummaryCreated, p.Name(), events.SummaryCreated{
		ItemID:      item.ID,
		VideoID:     item.VideoID,
		SummaryPath: summaryPath,
		Style:       summary.Style,
		WordCount:   summary.WordCount,
	}))
	return nil
}

var _ events.Handler = (*downloadProcessor)(nil)
var _ events.Handler = (*transcriptionProcessor)(nil)
var _ events.Handler = (*summarizationProcessor)(nil)
