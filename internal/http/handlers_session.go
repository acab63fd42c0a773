package http

import (
	"errors"
	"net/http"

	"moneyx/internal/core"
	"moneyx/internal/session"
)

type loginRequest struct {
	UserID string `json:"userId"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.sessions.Login(r.Context(), sanitizeInput(req.UserID)); err != nil {
		if errors.Is(err, session.ErrEmptyUser) {
			err = core.Invalid("login", err)
		}
		writeError(w, r, err)
		return
	}
	id, _ := s.sessions.CurrentUserID()
	writeJSON(w, http.StatusOK, map[string]string{"userId": id})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// handleState returns the whole state of the signed-in user.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, st)
}
