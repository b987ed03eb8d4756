package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/minpaixinyu/minpai/internal/db"
)

// History persists finished conversations locally so transcripts survive an
// export-less exit. The live transcript itself stays in memory; history is
// written once, when the conversation ends.
type History struct {
	db *db.DB
}

// NewHistory creates a history store.
func NewHistory(database *db.DB) *History {
	return &History{db: database}
}

// SaveConversation stores the transcript under a fresh session ID and
// returns it.
func (h *History) SaveConversation(ctx context.Context, turns []Turn) (string, error) {
	sessionID := uuid.New().String()

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("saving conversation: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO chat_sessions (id, started_at) VALUES (?, ?)`,
		sessionID, time.Now().UTC(),
	); err != nil {
		return "", fmt.Errorf("saving conversation: %w", err)
	}

	for _, t := range turns {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chat_turns (id, session_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
			t.ID, sessionID, string(t.Role), t.Text, t.At.UTC(),
		); err != nil {
			return "", fmt.Errorf("saving turn: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("saving conversation: %w", err)
	}
	return sessionID, nil
}

// LoadConversation returns the turns of a stored session in order.
func (h *History) LoadConversation(ctx context.Context, sessionID string) ([]Turn, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, role, content, created_at FROM chat_turns
		 WHERE session_id = ? ORDER BY rowid`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		var role string
		if err := rows.Scan(&t.ID, &role, &t.Text, &t.At); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		t.Role = Role(role)
		t.Revealed = true
		turns = append(turns, t)
	}
	return turns, rows.Err()
}
