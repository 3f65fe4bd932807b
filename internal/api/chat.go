package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/asplabs/maia/internal/agent"
	"github.com/asplabs/maia/internal/convo"
	"github.com/asplabs/maia/internal/store"
	"github.com/asplabs/maia/internal/tools"
)

type chatRequest struct {
	UserPrompt string `json:"user_prompt"`
}

type chatResponse struct {
	MaiaResponse   string       `json:"maia_response"`
	SessionID      string       `json:"session_id"`
	UpdatedHistory []convo.Turn `json:"updated_history"`
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	sessionID := r.PathValue("id")

	history, err := s.store.LoadHistory(sessionID, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Sessão não encontrada", s.logger)
		return
	}
	if err != nil {
		s.logger.Error("load history failed", "error", err, "session", sessionID)
		writeError(w, http.StatusInternalServerError, "erro interno", s.logger)
		return
	}
	if history == nil {
		history = []convo.Turn{}
	}
	writeJSON(w, history, s.logger)
}

func (s *Server) handleChatTurn(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	sessionID := r.PathValue("id")

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido", s.logger)
		return
	}

	resp, err := s.runTurn(r, user, sessionID, req.UserPrompt)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Sessão não encontrada", s.logger)
		return
	}
	if err != nil {
		s.logger.Error("chat turn failed", "error", err, "session", sessionID)
		writeError(w, http.StatusInternalServerError, "erro interno", s.logger)
		return
	}
	writeJSON(w, resp, s.logger)
}

// runTurn executes one agent turn against the session's persisted
// history. The session lock serializes concurrent turns so each one
// sees the previous turn's saved history.
func (s *Server) runTurn(r *http.Request, user *store.User, sessionID, prompt string) (*chatResponse, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	history, err := s.store.LoadHistory(sessionID, user.ID)
	if err != nil {
		return nil, err
	}

	ctx := tools.WithUserID(r.Context(), user.ID)
	identity := &agent.Identity{DisplayName: user.DisplayName}
	updated, finalText := s.loop.RunTurn(ctx, history, prompt, identity)

	if err := s.store.SaveHistory(sessionID, user.ID, updated); err != nil {
		return nil, err
	}
	return &chatResponse{MaiaResponse: finalText, SessionID: sessionID, UpdatedHistory: updated}, nil
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// CORS already gates browser clients; the upgrade itself accepts
	// any origin that presented a valid token.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleChatSocket streams chat turns over a websocket. Each client
// message is a chatRequest; each reply is a chatResponse.
func (s *Server) handleChatSocket(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	sessionID := r.PathValue("id")

	if _, err := s.store.GetSession(sessionID, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Sessão não encontrada", s.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, "erro interno", s.logger)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	s.logger.Info("websocket connected", "session", sessionID, "user", user.ID)

	for {
		var req chatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket read failed", "error", err)
			}
			return
		}

		resp, err := s.runTurn(r, user, sessionID, req.UserPrompt)
		if err != nil {
			s.logger.Error("websocket turn failed", "error", err, "session", sessionID)
			_ = conn.WriteJSON(map[string]string{"detail": "erro interno"})
			continue
		}
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Debug("websocket write failed", "error", err)
			return
		}
	}
}
