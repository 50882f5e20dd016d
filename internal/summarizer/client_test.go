package summarizer_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/praneethvg/video-summarizer/internal/summarizer"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *summarizer.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return summarizer.NewClient(
		summarizer.Config{APIKey: "test-key", BaseURL: server.URL, Model: "gpt-4o"},
		summarizer.WithRetryBackoff(time.Millisecond, 2*time.Millisecond),
		summarizer.WithSleeper(func(time.Duration) {}),
	)
}

func completionResponse(content string) string {
	return `{"choices": [{"message": {"content": ` + jsonString(content) + `}, "finish_reason": "stop"}]}`
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestSummarizeSendsPromptAndParsesResponse(t *testing.T) {
	var gotBody map[string]any
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionResponse("A concise summary of the talk.")))
	})

	summary, err := client.Summarize(context.Background(), summarizer.Request{
		Title:      "Sample Talk",
		Transcript: "We discussed plugin registries at length.",
		Style:      "comprehensive",
		Length:     "short",
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.Text != "A concise summary of the talk." {
		t.Fatalf("unexpected summary text: %q", summary.Text)
	}
	if summary.WordCount != 6 {
		t.Fatalf("unexpected word count: %d", summary.WordCount)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotBody["model"] != "gpt-4o" {
		t.Fatalf("unexpected model: %v", gotBody["model"])
	}
	messages, ok := gotBody["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("expected system and user messages, got %v", gotBody["messages"])
	}
	user := messages[1].(map[string]any)
	if content, _ := user["content"].(string); !strings.Contains(content, "plugin registries") {
		t.Fatalf("expected transcript in user prompt: %v", user["content"])
	}
}

func TestSummarizeRetriesOnRateLimit(t *testing.T) {
	attempts := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(completionResponse("recovered")))
	})

	summary, err := client.Summarize(context.Background(), summarizer.Request{
		Transcript: "transcript",
		Style:      "comprehensive",
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if summary.Text != "recovered" {
		t.Fatalf("unexpected text: %q", summary.Text)
	}
}

func TestSummarizeDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "bad key"}}`))
	})

	_, err := client.Summarize(context.Background(), summarizer.Request{
		Transcript: "transcript",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestSummarizeRetriesServerErrorsUntilExhausted(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client := summarizer.NewClient(
		summarizer.Config{APIKey: "test-key", BaseURL: server.URL, Model: "gpt-4o"},
		summarizer.WithRetryMaxAttempts(2),
		summarizer.WithSleeper(func(time.Duration) {}),
	)
	if _, err := client.Summarize(context.Background(), summarizer.Request{Transcript: "x"}); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestSummarizeValidatesInput(t *testing.T) {
	client := summarizer.NewClient(summarizer.Config{Model: "gpt-4o"})
	if _, err := client.Summarize(context.Background(), summarizer.Request{Transcript: "x"}); err == nil {
		t.Fatal("expected error for missing api key")
	}

	client = summarizer.NewClient(summarizer.Config{APIKey: "k", Model: "gpt-4o"})
	if _, err := client.Summarize(context.Background(), summarizer.Request{}); err == nil {
		t.Fatal("expected error for missing transcript")
	}
}

func TestSummarizeRejectsEmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	})
	if _, err := client.Summarize(context.Background(), summarizer.Request{Transcript: "x"}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestHealthCheck(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionResponse("ok")))
	})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck failed: %v", err)
	}
}
