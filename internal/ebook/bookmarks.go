package ebook

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/minpaixinyu/minpai/internal/db"
)

// Bookmarks persists {document URL -> page}, one row per document, last
// write wins.
type Bookmarks struct {
	db *db.DB
}

// NewBookmarks creates a bookmark store.
func NewBookmarks(database *db.DB) *Bookmarks {
	return &Bookmarks{db: database}
}

// Set records the bookmark for documentURL, replacing any prior one.
func (b *Bookmarks) Set(ctx context.Context, documentURL string, page int) error {
	if page < 1 {
		return fmt.Errorf("bookmark page must be >= 1, got %d", page)
	}
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO bookmarks (document_url, page, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(document_url) DO UPDATE SET page = excluded.page, updated_at = excluded.updated_at`,
		documentURL, page, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving bookmark: %w", err)
	}
	return nil
}

// Get returns the bookmarked page for documentURL, with ok=false when no
// bookmark exists.
func (b *Bookmarks) Get(ctx context.Context, documentURL string) (page int, ok bool, err error) {
	err = b.db.QueryRowContext(ctx,
		`SELECT page FROM bookmarks WHERE document_url = ?`, documentURL,
	).Scan(&page)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("loading bookmark: %w", err)
	}
	return page, true, nil
}
