package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/praneethvg/video-summarizer/internal/config"
)

const userAgent = "vidsum/0.1.0"

// Service defines the notification surface exposed to the pipeline.
type Service interface {
	NotifyDownloadCompleted(ctx context.Context, title string) error
	NotifyTranscriptReady(ctx context.Context, title, source string) error
	NotifySummaryCreated(ctx context.Context, title, summaryPath string) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// Without an ntfy topic a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyDownloadCompleted(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	data := payload{
		title:   "vidsum - Downloaded",
		message: fmt.Sprintf("Audio downloaded: %s", title),
		tags:    []string{"vidsum", "download", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyTranscriptReady(ctx context.Context, title, source string) error {
	title = strings.TrimSpace(title)
	source = strings.TrimSpace(source)
	if source == "" {
		source = "unknown"
	}
	data := payload{
		title:   "vidsum - Transcript Ready",
		message: fmt.Sprintf("Transcript ready: %s (%s)", title, source),
		tags:    []string{"vidsum", "transcript", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySummaryCreated(ctx context.Context, title, summaryPath string) error {
	title = strings.TrimSpace(title)
	message := fmt.Sprintf("Summary ready: %s", title)
	if summaryPath = strings.TrimSpace(summaryPath); summaryPath != "" {
		message = fmt.Sprintf("%s\nFile: %s", message, summaryPath)
	}
	data := payload{
		title:    "vidsum - Summary Created",
		message:  message,
		tags:     []string{"vidsum", "summary", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}
	data := payload{
		title:    "vidsum - Error",
		message:  builder.String(),
		tags:     []string{"vidsum", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "vidsum - Test",
		message:  "Notification system test",
		tags:     []string{"vidsum", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyDownloadCompleted(context.Context, string) error       { return nil }
func (noopService) NotifyTranscriptReady(context.Context, string, string) error { return nil }
func (noopService) NotifySummaryCreated(context.Context, string, string) error  { return nil }
func (noopService) NotifyError(context.Context, error, string) error            { return nil }
func (noopService) TestNotification(context.Context) error                      { return nil }
