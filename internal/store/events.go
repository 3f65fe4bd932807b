package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is a calendar entry owned by one user.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// CreateEvent stores a new calendar event.
func (s *Store) CreateEvent(userID, title, description string, start, end time.Time) (*Event, error) {
	ev := &Event{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Start:       start.UTC(),
		End:         end.UTC(),
	}
	_, err := s.db.Exec(`
		INSERT INTO events (id, user_id, title, description, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ev.ID, userID, ev.Title, ev.Description, ev.Start, ev.End, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return ev, nil
}

// DeleteEvent removes an event. Returns ErrNotFound for an unknown id.
func (s *Store) DeleteEvent(userID, eventID string) error {
	res, err := s.db.Exec(`DELETE FROM events WHERE id = ? AND user_id = ?`, eventID, userID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	return nil
}

// UpcomingEvents lists events starting at or after now, soonest first.
func (s *Store) UpcomingEvents(userID string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`
		SELECT id, title, description, start_time, end_time
		FROM events
		WHERE user_id = ? AND start_time >= ?
		ORDER BY start_time ASC
		LIMIT ?
	`, userID, time.Now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.Description, &ev.Start, &ev.End); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
