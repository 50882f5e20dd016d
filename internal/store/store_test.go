package store_test

import (
	"context"
	"testing"

	"github.com/praneethvg/video-summarizer/internal/store"
	"github.com/praneethvg/video-summarizer/internal/testsupport"
)

func TestOpenInitializesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := st.NewItem(ctx, "https://www.youtube.com/watch?v=abc123")
	if err != nil {
		t.Fatalf("NewItem failed: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected item ID to be assigned")
	}
	if item.Status != store.StatusPending {
		t.Fatalf("expected pending status, got %q", item.Status)
	}

	fetched, err := st.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.URL != item.URL {
		t.Fatalf("unexpected fetched item: %#v", fetched)
	}
}

func TestNewItemRequiresURL(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if _, err := st.NewItem(context.Background(), ""); err == nil {
		t.Fatal("expected error when url missing")
	}
}

func TestUpdatePersistsLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item := testsupport.NewItem(t, st, "https://vimeo.com/123456")

	item.VideoID = "123456"
	item.Title = "Sample Talk"
	item.Provider = "vimeo"
	item.Status = store.StatusDownloading
	if err := st.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fetched, err := st.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Status != store.StatusDownloading {
		t.Fatalf("expected downloading, got %q", fetched.Status)
	}
	if !fetched.IsProcessing() {
		t.Fatal("expected IsProcessing true for downloading")
	}

	found, err := st.FindByVideoID(ctx, "123456")
	if err != nil {
		t.Fatalf("FindByVideoID failed: %v", err)
	}
	if found == nil || found.ID != item.ID {
		t.Fatalf("expected to find updated item, got %#v", found)
	}
}

func TestListReturnsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	first := testsupport.NewItem(t, st, "https://www.youtube.com/watch?v=first")
	second := testsupport.NewItem(t, st, "https://www.youtube.com/watch?v=second")

	items, err := st.List(ctx, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Fatalf("expected newest first ordering, got %d then %d", items[0].ID, items[1].ID)
	}
}

func TestHealthAggregatesCounts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	completed := testsupport.NewItem(t, st, "https://www.youtube.com/watch?v=one")
	completed.Status = store.StatusCompleted
	if err := st.Update(ctx, completed); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	failed := testsupport.NewItem(t, st, "https://www.youtube.com/watch?v=two")
	failed.SetFailed("download exploded")
	if err := st.Update(ctx, failed); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	testsupport.NewItem(t, st, "https://www.youtube.com/watch?v=three")

	summary, err := st.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if summary.Total != 3 || summary.Completed != 1 || summary.Failed != 1 || summary.Pending != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := store.ParseStatus(" Transcribing "); !ok || status != store.StatusTranscribing {
		t.Fatalf("unexpected parse result: %v %v", status, ok)
	}
	if _, ok := store.ParseStatus("exploded"); ok {
		t.Fatal("expected unknown status to fail")
	}
}
