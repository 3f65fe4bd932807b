package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/asplabs/maia/internal/store"
)

type createSessionRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req createSessionRequest
	if r.Body != nil {
		// An empty body means a default title.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	session, err := s.store.CreateSession(user.ID, req.Title)
	if err != nil {
		s.logger.Error("create session failed", "error", err, "user", user.ID)
		writeError(w, http.StatusInternalServerError, "erro interno", s.logger)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, session, s.logger)
}

func (s *Server) handleSessionList(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	infos, err := s.store.ListSessions(user.ID)
	if err != nil {
		s.logger.Error("list sessions failed", "error", err, "user", user.ID)
		writeError(w, http.StatusInternalServerError, "erro interno", s.logger)
		return
	}
	if infos == nil {
		infos = []store.SessionInfo{}
	}
	writeJSON(w, infos, s.logger)
}

func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	sessionID := r.PathValue("id")

	err := s.store.DeleteSession(sessionID, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Sessão não encontrada", s.logger)
		return
	}
	if err != nil {
		s.logger.Error("delete session failed", "error", err, "session", sessionID)
		writeError(w, http.StatusInternalServerError, "erro interno", s.logger)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"}, s.logger)
}
