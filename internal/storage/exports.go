package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RecordExport remembers where a transaction was written in the sheet so a
// later delete can find the row again.
func (r *SQLiteRepository) RecordExport(ctx context.Context, userID, transactionID, ref string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sheet_exports (transaction_id, user_id, sheets_ref, exported_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(transaction_id) DO UPDATE SET
			sheets_ref = excluded.sheets_ref,
			exported_at = excluded.exported_at`,
		transactionID, userID, ref, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("record export of %s: %w", transactionID, err)
	}
	return nil
}

// ExportRef returns the sheet reference recorded for a transaction.
func (r *SQLiteRepository) ExportRef(ctx context.Context, transactionID string) (string, bool, error) {
	var ref string
	err := r.db.QueryRowContext(ctx,
		`SELECT sheets_ref FROM sheet_exports WHERE transaction_id = ?`, transactionID).Scan(&ref)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("export ref of %s: %w", transactionID, err)
	}
	return ref, true, nil
}

func (r *SQLiteRepository) ForgetExport(ctx context.Context, transactionID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM sheet_exports WHERE transaction_id = ?`, transactionID); err != nil {
		return fmt.Errorf("forget export of %s: %w", transactionID, err)
	}
	return nil
}

// ExportCount returns how many transactions of a user are recorded as
// exported.
func (r *SQLiteRepository) ExportCount(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sheet_exports WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count exports for %s: %w", userID, err)
	}
	return n, nil
}
