package testsupport

import (
	"context"
	"testing"

	"github.com/praneethvg/video-summarizer/internal/config"
	"github.com/praneethvg/video-summarizer/internal/store"
)

// MustOpenStore opens a history store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewItem creates a pending item for tests using the provided store.
func NewItem(t testing.TB, st *store.Store, url string) *store.Item {
	t.Helper()

	item, err := st.NewItem(context.Background(), url)
	if err != nil {
		t.Fatalf("store.NewItem: %v", err)
	}
	return item
}
