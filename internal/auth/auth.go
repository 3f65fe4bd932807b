// Package auth registers users, verifies passwords and issues the
// bearer tokens the HTTP API requires.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/asplabs/maia/internal/store"
)

var (
	ErrAuthDisabled       = errors.New("auth disabled")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// DefaultTokenExpiry matches the access token lifetime the web client
// expects before forcing a fresh login.
const DefaultTokenExpiry = 24 * time.Hour

// Service validates credentials against the store and manages tokens.
type Service struct {
	store *store.Store
	jwt   *JWTService
}

// NewService constructs an auth service. An empty secret disables
// token issuance, which the API surfaces as a configuration error.
func NewService(st *store.Store, jwtSecret string, expiry time.Duration) *Service {
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	s := &Service{store: st}
	if strings.TrimSpace(jwtSecret) != "" {
		s.jwt = NewJWTService(jwtSecret, expiry)
	}
	return s
}

// Enabled reports whether token issuance is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.jwt != nil
}

// Register creates a user with a bcrypt password hash. A duplicate
// email surfaces as store.ErrExists.
func (s *Service) Register(email, displayName, password string) (*store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.store.CreateUser(email, displayName, string(hash))
}

// Login verifies the password and returns a signed bearer token.
func (s *Service) Login(email, password string) (string, error) {
	if !s.Enabled() {
		return "", ErrAuthDisabled
	}
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.store.GetUserByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return s.jwt.Generate(user.Email, user.DisplayName)
}

// Authenticate resolves a bearer token to the stored user.
func (s *Service) Authenticate(token string) (*store.User, error) {
	if !s.Enabled() {
		return nil, ErrAuthDisabled
	}
	email, err := s.jwt.Validate(token)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUserByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
