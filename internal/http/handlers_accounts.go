package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"moneyx/internal/aggregate"
	"moneyx/internal/core"
	"moneyx/internal/ledger"
)

type accountRequest struct {
	Name    string           `json:"name"`
	Type    core.AccountType `json:"type"`
	Balance *Amount          `json:"balance"`
	Color   string           `json:"color"`
}

type accountPatchRequest struct {
	Name  *string           `json:"name"`
	Type  *core.AccountType `json:"type"`
	Color *string           `json:"color"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	st, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"accounts":     nonNil(st.Accounts),
		"totalBalance": aggregate.TotalBalance(st),
	})
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in := ledger.NewAccount{
		Name:    sanitizeInput(req.Name),
		Type:    req.Type,
		Balance: decimal.Zero,
		Color:   req.Color,
	}
	if req.Balance != nil {
		in.Balance = req.Balance.Decimal
	}
	acc, err := s.ledger.AddAccount(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, acc)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	acc, err := s.ledger.UpdateAccount(r.Context(), r.PathValue("id"), ledger.AccountPatch{
		Name:  sanitizePtr(req.Name),
		Type:  req.Type,
		Color: req.Color,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteAccount(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
