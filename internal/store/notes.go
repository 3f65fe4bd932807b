package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NoteList is a titled, per-user list of note items.
type NoteList struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Items []NoteItem `json:"items"`
}

// NoteItem is one entry in a list. ItemID is sequential within the list.
type NoteItem struct {
	ItemID int    `json:"item_id"`
	Text   string `json:"text"`
}

// CreateNoteList creates a new empty list. Titles are unique per user,
// compared case-insensitively. Returns ErrExists on collision.
func (s *Store) CreateNoteList(userID, title string) (*NoteList, error) {
	var existing string
	err := s.db.QueryRow(`
		SELECT id FROM note_lists WHERE user_id = ? AND LOWER(title) = LOWER(?)
	`, userID, title).Scan(&existing)
	if err == nil {
		return nil, fmt.Errorf("list %q: %w", title, ErrExists)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query list: %w", err)
	}

	list := &NoteList{ID: uuid.NewString(), Title: title, Items: []NoteItem{}}
	_, err = s.db.Exec(`
		INSERT INTO note_lists (id, user_id, title, created_at)
		VALUES (?, ?, ?, ?)
	`, list.ID, userID, title, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}
	return list, nil
}

// NoteLists returns all of a user's lists with their items.
func (s *Store) NoteLists(userID string) ([]NoteList, error) {
	rows, err := s.db.Query(`
		SELECT id, title FROM note_lists WHERE user_id = ? ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list note lists: %w", err)
	}
	defer rows.Close()

	var lists []NoteList
	for rows.Next() {
		var l NoteList
		if err := rows.Scan(&l.ID, &l.Title); err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range lists {
		items, err := s.noteItems(lists[i].ID)
		if err != nil {
			return nil, err
		}
		lists[i].Items = items
	}
	return lists, nil
}

// FindNoteList locates a list by case-insensitive title.
func (s *Store) FindNoteList(userID, title string) (*NoteList, error) {
	var l NoteList
	err := s.db.QueryRow(`
		SELECT id, title FROM note_lists WHERE user_id = ? AND LOWER(title) = LOWER(?)
	`, userID, title).Scan(&l.ID, &l.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list %q: %w", title, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query list: %w", err)
	}

	l.Items, err = s.noteItems(l.ID)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Store) noteItems(listID string) ([]NoteItem, error) {
	rows, err := s.db.Query(`
		SELECT item_id, text FROM note_items WHERE list_id = ? ORDER BY item_id ASC
	`, listID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []NoteItem{}
	for rows.Next() {
		var it NoteItem
		if err := rows.Scan(&it.ItemID, &it.Text); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// AddNoteItems appends items to a list, assigning sequential ids.
func (s *Store) AddNoteItems(userID, title string, texts []string) (*NoteList, error) {
	list, err := s.FindNoteList(userID, title)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, text := range texts {
		var next int
		err := tx.QueryRow(`
			SELECT COALESCE(MAX(item_id), 0) + 1 FROM note_items WHERE list_id = ?
		`, list.ID).Scan(&next)
		if err != nil {
			return nil, fmt.Errorf("next item id: %w", err)
		}
		if _, err := tx.Exec(`
			INSERT INTO note_items (list_id, item_id, text) VALUES (?, ?, ?)
		`, list.ID, next, text); err != nil {
			return nil, fmt.Errorf("insert item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.FindNoteList(userID, title)
}

// DeleteNoteList removes a list and its items.
func (s *Store) DeleteNoteList(userID, title string) error {
	list, err := s.FindNoteList(userID, title)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM note_lists WHERE id = ?`, list.ID); err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

// DeleteNoteItem removes a single item by its per-list id.
func (s *Store) DeleteNoteItem(userID, title string, itemID int) error {
	list, err := s.FindNoteList(userID, title)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(`
		DELETE FROM note_items WHERE list_id = ? AND item_id = ?
	`, list.ID, itemID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	return nil
}
