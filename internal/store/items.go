package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const itemColumns = `id, url, video_id, title, provider, status, audio_path,
	transcript_path, summary_path, language, error_message, created_at, updated_at`

// NewItem inserts a pending item for a freshly discovered URL.
func (s *Store) NewItem(ctx context.Context, url string) (*Item, error) {
	if url == "" {
		return nil, errors.New("url required")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO items (url, status, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		url,
		StatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches an item by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// FindByVideoID returns the most recent item matching a provider video ID.
func (s *Store) FindByVideoID(ctx context.Context, videoID string) (*Item, error) {
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT `+itemColumns+` FROM items WHERE video_id = ? ORDER BY id DESC LIMIT 1`,
		videoID,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by video id: %w", err)
	}
	return item, nil
}

// Update persists changes to an existing item.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()

	_, err := s.execWithRetry(
		ctx,
		`UPDATE items SET
			url = ?, video_id = ?, title = ?, provider = ?, status = ?,
			audio_path = ?, transcript_path = ?, summary_path = ?,
			language = ?, error_message = ?, updated_at = ?
		WHERE id = ?`,
		item.URL,
		item.VideoID,
		item.Title,
		item.Provider,
		item.Status,
		item.AudioPath,
		item.TranscriptPath,
		item.SummaryPath,
		item.Language,
		item.ErrorMessage,
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// List returns the most recent items, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]*Item, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT `+itemColumns+` FROM items ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Health returns aggregated item counts for status reporting.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	var summary HealthSummary
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM items GROUP BY status`)
	if err != nil {
		return summary, fmt.Errorf("aggregate statuses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return summary, fmt.Errorf("scan status count: %w", err)
		}
		summary.Total += count
		switch status {
		case StatusPending:
			summary.Pending += count
		case StatusDownloading, StatusTranscribing, StatusSummarizing:
			summary.Processing += count
		case StatusFailed:
			summary.Failed += count
		case StatusCompleted:
			summary.Completed += count
		}
	}
	return summary, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(scanner rowScanner) (*Item, error) {
	var (
		item      Item
		status    string
		createdAt string
		updatedAt string
	)
	err := scanner.Scan(
		&item.ID,
		&item.URL,
		&item.VideoID,
		&item.Title,
		&item.Provider,
		&status,
		&item.AudioPath,
		&item.TranscriptPath,
		&item.SummaryPath,
		&item.Language,
		&item.ErrorMessage,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Status = Status(status)
	if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		item.CreatedAt = parsed
	}
	if parsed, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		item.UpdatedAt = parsed
	}
	return &item, nil
}
