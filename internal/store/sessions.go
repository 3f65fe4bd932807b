package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/asplabs/maia/internal/convo"
)

// Session is a persisted conversation owned by one user.
type Session struct {
	ID        string       `json:"session_id"`
	UserID    string       `json:"-"`
	Title     string       `json:"title"`
	History   []convo.Turn `json:"history,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// SessionInfo is the history-free listing entry (sidebar view).
type SessionInfo struct {
	ID    string `json:"session_id"`
	Title string `json:"title"`
}

// CreateSession creates an empty session for a user.
func (s *Store) CreateSession(userID, title string) (*Session, error) {
	if title == "" {
		title = "Novo Chat"
	}
	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		History:   []convo.Turn{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.Exec(`
		INSERT INTO sessions (id, user_id, title, history, created_at, updated_at)
		VALUES (?, ?, ?, '[]', ?, ?)
	`, sess.ID, sess.UserID, sess.Title, sess.CreatedAt, sess.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

// GetSession retrieves a session including its history. The ownership
// check lives in the query: a session belonging to another user is
// indistinguishable from a missing one.
func (s *Store) GetSession(sessionID, userID string) (*Session, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, title, history, created_at, updated_at
		FROM sessions WHERE id = ? AND user_id = ?
	`, sessionID, userID)

	var sess Session
	var historyJSON string
	err := row.Scan(&sess.ID, &sess.UserID, &sess.Title, &historyJSON, &sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}

	sess.History, err = convo.UnmarshalHistory([]byte(historyJSON))
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return &sess, nil
}

// ListSessions lists a user's sessions, newest first, without history.
func (s *Store) ListSessions(userID string) ([]SessionInfo, error) {
	rows, err := s.db.Query(`
		SELECT id, title FROM sessions
		WHERE user_id = ?
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	infos := []SessionInfo{}
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.ID, &info.Title); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// DeleteSession removes a session. No cascading effects beyond the row.
func (s *Store) DeleteSession(sessionID, userID string) error {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE id = ? AND user_id = ?`, sessionID, userID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	return nil
}

// LoadHistory returns the persisted turn array for a session.
func (s *Store) LoadHistory(sessionID, userID string) ([]convo.Turn, error) {
	sess, err := s.GetSession(sessionID, userID)
	if err != nil {
		return nil, err
	}
	return sess.History, nil
}

// SaveHistory replaces a session's history wholesale. The agent loop
// commits only the final array, so a failed turn never leaves a
// half-written history behind.
func (s *Store) SaveHistory(sessionID, userID string, history []convo.Turn) error {
	data, err := convo.MarshalHistory(history)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	res, err := s.db.Exec(`
		UPDATE sessions SET history = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, string(data), time.Now().UTC(), sessionID, userID)
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	return nil
}
