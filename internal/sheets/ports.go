// Package sheets defines the ports used to mirror ledger transactions into
// a spreadsheet.
package sheets

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingID   = errors.New("row has no transaction id")
	ErrMissingDate = errors.New("row has no date")
	ErrUnknownRef  = errors.New("unknown row reference")
)

// Row is one exported transaction.
type Row struct {
	TransactionID string
	Date          time.Time
	Description   string
	Category      string
	Account       string
	Amount        decimal.Decimal
	Type          string
}

func (r Row) Validate() error {
	if r.TransactionID == "" {
		return ErrMissingID
	}
	if r.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// Ports for outbound adapters.
type (
	TransactionWriter interface {
		Append(ctx context.Context, r Row) (rowRef string, err error)
	}

	// RowDeleter removes a row previously returned by Append.
	RowDeleter interface {
		DeleteRow(ctx context.Context, rowRef string) error
	}

	// TransactionLister returns the exported rows of one month.
	TransactionLister interface {
		ListTransactions(ctx context.Context, year int, month int) ([]Row, error)
	}

	Exporter interface {
		TransactionWriter
		RowDeleter
	}
)
