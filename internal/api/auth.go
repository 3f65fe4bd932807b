package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/asplabs/maia/internal/auth"
	"github.com/asplabs/maia/internal/store"
)

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido", s.logger)
		return
	}
	user, err := s.auth.Register(req.Email, req.DisplayName, req.Password)
	switch {
	case errors.Is(err, store.ErrExists):
		writeError(w, http.StatusConflict, "Já existe um usuário com este email", s.logger)
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "email e senha são obrigatórios", s.logger)
		return
	case err != nil:
		s.logger.Error("register failed", "error", err)
		writeError(w, http.StatusInternalServerError, "erro interno", s.logger)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, user, s.logger)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// handleLogin accepts an OAuth2 password form (username, password)
// and returns a bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "formulário inválido", s.logger)
		return
	}
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, err := s.auth.Login(email, password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, "Email ou senha incorretos", s.logger)
		return
	case errors.Is(err, auth.ErrAuthDisabled):
		writeError(w, http.StatusInternalServerError, "autenticação não configurada no servidor", s.logger)
		return
	case err != nil:
		s.logger.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "erro interno", s.logger)
		return
	}
	writeJSON(w, tokenResponse{AccessToken: token, TokenType: "bearer"}, s.logger)
}
