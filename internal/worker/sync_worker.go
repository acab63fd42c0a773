// Package worker mirrors ledger events into a spreadsheet.
package worker

import (
	"context"
	"fmt"
	"sync"

	"moneyx/internal/amqp"
	"moneyx/internal/cache"
	"moneyx/internal/log"
	"moneyx/internal/notify"
	"moneyx/internal/sheets"
)

// ExportRefs remembers which sheet row each exported transaction landed in.
type ExportRefs interface {
	RecordExport(ctx context.Context, userID, transactionID, ref string) error
	ExportRef(ctx context.Context, transactionID string) (string, bool, error)
	ForgetExport(ctx context.Context, transactionID string) error
}

// SyncWorker applies ledger events to the sheet: removed transactions lose
// their row, created transactions gain one.
type SyncWorker struct {
	exporter sheets.Exporter
	refs     ExportRefs
	seen     *cache.LRUCache[bool]
	logger   *log.Logger
}

// NewSyncWorker builds a worker. seen may be nil, in which case redelivered
// messages are only deduplicated through refs.
func NewSyncWorker(exporter sheets.Exporter, refs ExportRefs, seen *cache.LRUCache[bool], logger *log.Logger) *SyncWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &SyncWorker{
		exporter: exporter,
		refs:     refs,
		seen:     seen,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleLedgerEvent processes one event. A returned error means the event
// should be redelivered; every step is safe to repeat.
func (w *SyncWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	if w == nil || w.exporter == nil || w.refs == nil {
		return fmt.Errorf("sync worker not properly initialized")
	}
	if !msg.HasChanges() {
		return nil
	}
	if w.seen != nil && msg.ID != "" {
		if _, dup := w.seen.Get(msg.ID); dup {
			w.logger.DebugContext(ctx, "Skipping already processed event", log.FieldMessageID, msg.ID)
			return nil
		}
	}

	w.logger.InfoContext(ctx, "Processing ledger event",
		log.FieldMessageID, msg.ID,
		log.FieldOperation, msg.Operation,
		"created", len(msg.Transactions),
		"removed", len(msg.Removed))

	for _, e := range msg.Removed {
		if err := w.remove(ctx, e); err != nil {
			return err
		}
	}
	for _, e := range msg.Transactions {
		if err := w.export(ctx, msg.UserID, e); err != nil {
			return err
		}
	}

	if w.seen != nil && msg.ID != "" {
		w.seen.Set(msg.ID, true)
	}
	return nil
}

func (w *SyncWorker) remove(ctx context.Context, e notify.Entry) error {
	ref, ok, err := w.refs.ExportRef(ctx, e.ID)
	if err != nil {
		return fmt.Errorf("look up export of %s: %w", e.ID, err)
	}
	if !ok {
		w.logger.WarnContext(ctx, "No exported row for removed transaction", log.FieldTransactionID, e.ID)
		return nil
	}

	if err := w.exporter.DeleteRow(ctx, ref); err != nil {
		return fmt.Errorf("delete row %s: %w", ref, err)
	}
	if err := w.refs.ForgetExport(ctx, e.ID); err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "Removed exported transaction",
		log.FieldTransactionID, e.ID,
		log.FieldSheetsRef, ref)
	return nil
}

func (w *SyncWorker) export(ctx context.Context, userID string, e notify.Entry) error {
	if _, ok, err := w.refs.ExportRef(ctx, e.ID); err != nil {
		return fmt.Errorf("look up export of %s: %w", e.ID, err)
	} else if ok {
		return nil
	}

	ref, err := w.exporter.Append(ctx, RowFromEntry(e))
	if err != nil {
		return fmt.Errorf("append %s: %w", e.ID, err)
	}
	if err := w.refs.RecordExport(ctx, userID, e.ID, ref); err != nil {
		// The row exists; a retry would append it twice, so only log.
		w.logger.ErrorContext(ctx, "Failed to record export",
			log.FieldTransactionID, e.ID,
			log.FieldSheetsRef, ref,
			log.FieldError, err)
		return nil
	}

	w.logger.InfoContext(ctx, "Exported transaction",
		log.FieldTransactionID, e.ID,
		log.FieldSheetsRef, ref,
		log.FieldAmount, e.Amount.StringFixed(2))
	return nil
}

// RowFromEntry converts an event entry to a sheet row. Amounts keep their
// sign so expenses read as negative.
func RowFromEntry(e notify.Entry) sheets.Row {
	return sheets.Row{
		TransactionID: e.ID,
		Date:          e.Date,
		Description:   e.Description,
		Category:      e.CategoryName,
		Account:       e.AccountName,
		Amount:        e.Amount,
		Type:          string(e.Type),
	}
}

// MemoryRefs is an in-process ExportRefs.
type MemoryRefs struct {
	mu   sync.Mutex
	refs map[string]string
}

func NewMemoryRefs() *MemoryRefs {
	return &MemoryRefs{refs: make(map[string]string)}
}

func (m *MemoryRefs) RecordExport(_ context.Context, _, transactionID, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refs[transactionID] = ref
	return nil
}

func (m *MemoryRefs) ExportRef(_ context.Context, transactionID string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ref, ok := m.refs[transactionID]
	return ref, ok, nil
}

func (m *MemoryRefs) ForgetExport(_ context.Context, transactionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.refs, transactionID)
	return nil
}
