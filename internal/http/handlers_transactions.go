package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"moneyx/internal/aggregate"
	"moneyx/internal/core"
	"moneyx/internal/ledger"
	"moneyx/internal/log"
)

type transactionRequest struct {
	Date        *Date                `json:"date"`
	Amount      Amount               `json:"amount"`
	Description string               `json:"description"`
	CategoryID  string               `json:"categoryId"`
	AccountID   string               `json:"accountId"`
	Type        core.TransactionType `json:"type"`
	IsRecurring bool                 `json:"isRecurring"`
	Tags        []string             `json:"tags"`
}

type transactionPatchRequest struct {
	Date        *Date                 `json:"date"`
	Amount      *Amount               `json:"amount"`
	Description *string               `json:"description"`
	CategoryID  *string               `json:"categoryId"`
	AccountID   *string               `json:"accountId"`
	Type        *core.TransactionType `json:"type"`
	IsRecurring *bool                 `json:"isRecurring"`
	Tags        *[]string             `json:"tags"`
}

type transferRequest struct {
	FromAccountID string  `json:"fromAccountId"`
	ToAccountID   string  `json:"toAccountId"`
	Amount        Amount  `json:"amount"`
	Fee           *Amount `json:"fee"`
	Description   string  `json:"description"`
	Date          *Date   `json:"date"`
}

// transactionFilter reads account, type, category, from and to query
// parameters. Dates are YYYY-MM-DD.
func transactionFilter(r *http.Request) (aggregate.TransactionFilter, error) {
	q := r.URL.Query()
	f := aggregate.TransactionFilter{
		AccountID:  strings.TrimSpace(q.Get("account")),
		Type:       core.TransactionType(strings.TrimSpace(q.Get("type"))),
		CategoryID: strings.TrimSpace(q.Get("category")),
	}
	if f.Type != "" && !f.Type.IsValid() {
		return f, core.Invalid("list transactions", core.ErrInvalidType)
	}
	var err error
	if f.From, err = optionalDate(q.Get("from")); err != nil {
		return f, core.Invalid("list transactions", err)
	}
	if f.To, err = optionalDate(q.Get("to")); err != nil {
		return f, core.Invalid("list transactions", err)
	}
	return f, nil
}

func optionalDate(v string) (time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return time.Time{}, nil
	}
	return parseDate(v)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := transactionFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	st, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": aggregate.SortedTransactions(st, f),
	})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	tx, err := s.ledger.AddTransaction(r.Context(), ledger.NewTransaction{
		Date:        orToday(req.Date, s.now()),
		Amount:      req.Amount.Decimal,
		Description: sanitizeInput(req.Description),
		CategoryID:  req.CategoryID,
		AccountID:   req.AccountID,
		Type:        req.Type,
		IsRecurring: req.IsRecurring,
		Tags:        req.Tags,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	tx, err := s.ledger.UpdateTransaction(r.Context(), r.PathValue("id"), ledger.TransactionPatch{
		Date:        datePtr(req.Date),
		Amount:      amountPtr(req.Amount),
		Description: sanitizePtr(req.Description),
		CategoryID:  req.CategoryID,
		AccountID:   req.AccountID,
		Type:        req.Type,
		IsRecurring: req.IsRecurring,
		Tags:        req.Tags,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in := ledger.TransferRequest{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount.Decimal,
		Description:   sanitizeInput(req.Description),
		Date:          orToday(req.Date, s.now()),
	}
	if req.Fee != nil {
		in.Fee = req.Fee.Decimal
	}
	legs, err := s.ledger.TransferBetweenAccounts(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"transactions": legs})
}

// handleExportTransactions streams the filtered transactions as CSV.
func (s *Server) handleExportTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := transactionFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	st, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	name := fmt.Sprintf("transactions-%s.csv", s.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	n, err := aggregate.ExportCSV(w, st, f)
	logger := log.FromContext(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "CSV export failed", log.FieldOperation, log.OpExport, log.FieldError, err)
		return
	}
	logger.InfoContext(r.Context(), "Transactions exported", log.FieldOperation, log.OpExport, "rows", n)
}
