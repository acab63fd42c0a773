package http

import (
	"net/http"

	"moneyx/internal/aggregate"
	"moneyx/internal/core"
	"moneyx/internal/ledger"
)

type goalRequest struct {
	Name         string `json:"name"`
	TargetAmount Amount `json:"targetAmount"`
	TargetDate   *Date  `json:"targetDate"`
	Color        string `json:"color"`
}

type goalPatchRequest struct {
	Name            *string `json:"name"`
	TargetAmount    *Amount `json:"targetAmount"`
	TargetDate      *Date   `json:"targetDate"`
	ClearTargetDate bool    `json:"clearTargetDate"`
	Color           *string `json:"color"`
}

type fundRequest struct {
	AccountID string `json:"accountId"`
	Amount    Amount `json:"amount"`
}

type goalView struct {
	core.SavingsGoal
	Progress int `json:"progress"`
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	st, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	goals := make([]goalView, 0, len(st.Goals))
	for _, g := range st.Goals {
		goals = append(goals, goalView{SavingsGoal: g, Progress: aggregate.SavingsProgress(g)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"goals": goals})
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := s.ledger.AddSavingsGoal(r.Context(), ledger.NewGoal{
		Name:         sanitizeInput(req.Name),
		TargetAmount: req.TargetAmount.Decimal,
		TargetDate:   datePtr(req.TargetDate),
		Color:        req.Color,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := s.ledger.UpdateSavingsGoal(r.Context(), r.PathValue("id"), ledger.GoalPatch{
		Name:            sanitizePtr(req.Name),
		TargetAmount:    amountPtr(req.TargetAmount),
		TargetDate:      datePtr(req.TargetDate),
		ClearTargetDate: req.ClearTargetDate,
		Color:           req.Color,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteSavingsGoal(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFundGoal(w http.ResponseWriter, r *http.Request) {
	var req fundRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, tx, err := s.ledger.FundSavingsGoal(r.Context(), r.PathValue("id"), req.AccountID, req.Amount.Decimal)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"goal": g, "transaction": tx})
}
