package aggregate

import (
	"encoding/csv"
	"fmt"
	"io"

	"moneyx/internal/core"
	"moneyx/internal/store"
)

var exportHeader = []string{"Date", "Description", "Category", "Account", "Amount", "Type"}

// ExportCSV writes the filtered transactions, newest first, using the
// user's date format and currency. It returns the number of data rows.
func ExportCSV(w io.Writer, st store.State, f TransactionFilter) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}

	layout := core.DateLayout(st.Preferences.DateFormat)
	rows := 0
	for _, v := range SortedTransactions(st, f) {
		account := "-"
		if a := st.Account(v.AccountID); a != nil {
			account = a.Name
		}
		category := v.Category.Name
		if category == "" {
			category = OtherCategoryName
		}
		rec := []string{
			v.Date.Format(layout),
			v.Description,
			category,
			account,
			core.FormatMoney(st.Preferences.Currency, v.Amount.Abs()),
			string(v.Type),
		}
		if err := cw.Write(rec); err != nil {
			return rows, fmt.Errorf("write csv row %s: %w", v.ID, err)
		}
		rows++
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return rows, fmt.Errorf("flush csv: %w", err)
	}
	return rows, nil
}
