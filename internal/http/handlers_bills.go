package http

import (
	"net/http"
	"strconv"

	"moneyx/internal/aggregate"
	"moneyx/internal/core"
	"moneyx/internal/ledger"
)

type billRequest struct {
	Name        string               `json:"name"`
	Amount      Amount               `json:"amount"`
	DueDate     Date                 `json:"dueDate"`
	IsRecurring bool                 `json:"isRecurring"`
	Period      core.RepetitionTypes `json:"period"`
	CategoryID  string               `json:"categoryId"`
	AccountID   string               `json:"accountId"`
}

type billPatchRequest struct {
	Name        *string               `json:"name"`
	Amount      *Amount               `json:"amount"`
	DueDate     *Date                 `json:"dueDate"`
	IsRecurring *bool                 `json:"isRecurring"`
	Period      *core.RepetitionTypes `json:"period"`
	CategoryID  *string               `json:"categoryId"`
	AccountID   *string               `json:"accountId"`
	IsPaid      *bool                 `json:"isPaid"`
}

type payBillRequest struct {
	AccountID string `json:"accountId"`
	Date      *Date  `json:"date"`
}

// handleListBills returns every bill with its distance to the due date.
// ?within=N narrows the list to unpaid bills due in N days or overdue.
func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	st, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	now := s.now()
	if v := r.URL.Query().Get("within"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			writeError(w, r, core.Invalidf("list bills", "within must be a non-negative number of days"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"bills": nonNil(aggregate.UpcomingBills(st, now, days))})
		return
	}

	bills := make([]aggregate.BillDue, 0, len(st.Bills))
	for _, b := range st.Bills {
		days := aggregate.DaysUntilDue(b.DueDate, now)
		bills = append(bills, aggregate.BillDue{Bill: b, DaysUntil: days, Overdue: !b.IsPaid && days < 0})
	}
	writeJSON(w, http.StatusOK, map[string]any{"bills": bills})
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := s.ledger.AddBill(r.Context(), ledger.NewBill{
		Name:        sanitizeInput(req.Name),
		Amount:      req.Amount.Decimal,
		DueDate:     req.DueDate.Time,
		IsRecurring: req.IsRecurring,
		Period:      req.Period,
		CategoryID:  req.CategoryID,
		AccountID:   req.AccountID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	var req billPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := s.ledger.UpdateBill(r.Context(), r.PathValue("id"), ledger.BillPatch{
		Name:        sanitizePtr(req.Name),
		Amount:      amountPtr(req.Amount),
		DueDate:     datePtr(req.DueDate),
		IsRecurring: req.IsRecurring,
		Period:      req.Period,
		CategoryID:  req.CategoryID,
		AccountID:   req.AccountID,
		IsPaid:      req.IsPaid,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteBill(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePayBill(w http.ResponseWriter, r *http.Request) {
	var req payBillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, tx, err := s.ledger.PayBill(r.Context(), r.PathValue("id"), ledger.PayBillRequest{
		AccountID: req.AccountID,
		Date:      orToday(req.Date, s.now()),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bill": b, "transaction": tx})
}
