package http

import (
	"net/http"

	"moneyx/internal/aggregate"
	"moneyx/internal/core"
	"moneyx/internal/ledger"
)

type budgetLineRequest struct {
	CategoryID string `json:"categoryId"`
	Allocated  Amount `json:"allocated"`
}

type budgetRequest struct {
	Month      int                 `json:"month"`
	Year       int                 `json:"year"`
	Categories []budgetLineRequest `json:"categories"`
}

// handleListBudgets returns every budget plus the usage report of the
// month selected by ?month=&year= (default: current month).
func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	st, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	year, month := parseYearMonth(r, s.now())
	resp := map[string]any{"budgets": nonNil(st.Budgets), "usage": nil}
	if report, found := aggregate.BudgetUsage(st, month, year); found {
		resp["usage"] = report
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	lines := make([]core.BudgetCategory, 0, len(req.Categories))
	for _, l := range req.Categories {
		lines = append(lines, core.BudgetCategory{CategoryID: l.CategoryID, Allocated: l.Allocated.Decimal})
	}
	b, err := s.ledger.SetBudget(r.Context(), req.Month, req.Year, lines)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteBudget(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	st, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	unread := 0
	for _, n := range st.Notifications {
		if !n.Read {
			unread++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": nonNil(st.Notifications),
		"unread":        unread,
	})
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.MarkNotificationAsRead(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	st, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, st.Preferences)
}

func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var patch ledger.PreferencesPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.ledger.UpdatePreferences(r.Context(), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	st, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, aggregate.Dashboard(st, s.now()))
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	st, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"insights": nonNil(aggregate.Insights(st, s.now()))})
}
