package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Email is the unique lookup key.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateUser registers a new account. Returns ErrExists if the email is
// already taken.
func (s *Store) CreateUser(email, displayName, passwordHash string) (*User, error) {
	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := s.db.Exec(`
		INSERT INTO users (id, email, display_name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, user.ID, user.Email, user.DisplayName, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("user %s: %w", email, ErrExists)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// GetUserByEmail looks up an account by its email key (case-sensitive).
func (s *Store) GetUserByEmail(email string) (*User, error) {
	row := s.db.QueryRow(`
		SELECT id, email, display_name, password_hash, created_at
		FROM users WHERE email = ?
	`, email)

	var u User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

// GetOrCreateLocalUser returns the synthetic account used by the
// console transport, creating it on first use.
func (s *Store) GetOrCreateLocalUser() (*User, error) {
	row := s.db.QueryRow(`
		SELECT id, email, display_name, password_hash, created_at
		FROM users WHERE id = 'local'
	`)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.CreatedAt)
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query local user: %w", err)
	}

	u = User{
		ID:          "local",
		Email:       "local@console",
		DisplayName: "senhor",
		CreatedAt:   time.Now().UTC(),
	}
	_, err = s.db.Exec(`
		INSERT INTO users (id, email, display_name, password_hash, created_at)
		VALUES (?, ?, ?, '', ?)
	`, u.ID, u.Email, u.DisplayName, u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create local user: %w", err)
	}
	return &u, nil
}
