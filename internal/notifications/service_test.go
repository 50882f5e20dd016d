package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/praneethvg/video-summarizer/internal/notifications"
	"github.com/praneethvg/video-summarizer/internal/testsupport"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(cfg)
	if err := svc.NotifySummaryCreated(context.Background(), "Example", ""); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceSendsHeadersAndBody(t *testing.T) {
	type captured struct {
		title    string
		tags     string
		priority string
		body     string
	}
	var got captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		}
	}))
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(cfg)

	if err := svc.NotifySummaryCreated(context.Background(), "Sample Talk", "/out/abc.md"); err != nil {
		t.Fatalf("NotifySummaryCreated failed: %v", err)
	}
	if got.title != "vidsum - Summary Created" {
		t.Fatalf("unexpected title header: %q", got.title)
	}
	if got.tags != "vidsum,summary,completed" {
		t.Fatalf("unexpected tags header: %q", got.tags)
	}
	if got.priority != "high" {
		t.Fatalf("unexpected priority header: %q", got.priority)
	}
	if !strings.Contains(got.body, "Sample Talk") || !strings.Contains(got.body, "/out/abc.md") {
		t.Fatalf("unexpected body: %q", got.body)
	}
}

func TestNtfyServiceReportsHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(cfg)

	err := svc.NotifyError(context.Background(), errors.New("boom"), "download")
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected 403 error, got %v", err)
	}
}
