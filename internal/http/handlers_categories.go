package http

import (
	"net/http"

	"moneyx/internal/core"
	"moneyx/internal/ledger"
)

type categoryRequest struct {
	Name  string            `json:"name"`
	Type  core.CategoryType `json:"type"`
	Color string            `json:"color"`
}

type categoryPatchRequest struct {
	Name  *string            `json:"name"`
	Type  *core.CategoryType `json:"type"`
	Color *string            `json:"color"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	st, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": nonNil(st.Categories)})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := s.ledger.AddCategory(r.Context(), ledger.NewCategory{
		Name:  sanitizeInput(req.Name),
		Type:  req.Type,
		Color: req.Color,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := s.ledger.UpdateCategory(r.Context(), r.PathValue("id"), ledger.CategoryPatch{
		Name:  sanitizePtr(req.Name),
		Type:  req.Type,
		Color: req.Color,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
