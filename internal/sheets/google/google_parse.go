package google

import (
	"fmt"
	"strings"

	"moneyx/internal/core"
	ports "moneyx/internal/sheets"
)

// parseRows converts a values matrix as returned by the Sheets API into
// rows. The header, cleared rows and rows with an unreadable date or amount
// are skipped; listing is best effort.
func parseRows(values [][]any) []ports.Row {
	var out []ports.Row
	for _, raw := range values {
		cols := toStrings(raw)
		if len(cols) < 5 {
			continue
		}
		date, ok := parseDate(cols[0])
		if !ok {
			continue
		}
		amount, err := core.ParseAmount(cols[4])
		if err != nil {
			continue
		}
		out = append(out, ports.Row{
			Date:          date,
			Description:   safeGet(cols, 1),
			Category:      safeGet(cols, 2),
			Account:       safeGet(cols, 3),
			Amount:        amount,
			Type:          safeGet(cols, 5),
			TransactionID: safeGet(cols, 6),
		})
	}
	return out
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
