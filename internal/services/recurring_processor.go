package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hako/durafmt"

	"moneyx/internal/core"
	"moneyx/internal/log"
	"moneyx/internal/store"
)

// StateReader exposes a copy of the active user's state.
type StateReader interface {
	Snapshot() (store.State, bool)
}

// BillRoller reopens a paid recurring bill for its next period.
type BillRoller interface {
	RollOverBill(ctx context.Context, billID string, nextDue time.Time) (core.Bill, error)
}

// RecurringProcessor opens the next period of recurring bills once they
// have been paid and their due date has arrived.
type RecurringProcessor struct {
	state  StateReader
	ledger BillRoller
	logger *log.Logger
}

func NewRecurringProcessor(state StateReader, ledger BillRoller, logger *log.Logger) *RecurringProcessor {
	if logger == nil {
		logger = log.Discard()
	}
	return &RecurringProcessor{
		state:  state,
		ledger: ledger,
		logger: logger.WithComponent(log.ComponentRollover),
	}
}

// ProcessDueBills rolls over every bill due at now and returns how many were
// renewed. A bill that fails is logged and skipped; the rest still run.
// Each bill advances by one period per call.
func (p *RecurringProcessor) ProcessDueBills(ctx context.Context, now time.Time) (int, error) {
	if p.state == nil || p.ledger == nil {
		return 0, errors.New("processor not properly initialized")
	}

	st, ok := p.state.Snapshot()
	if !ok {
		p.logger.DebugContext(ctx, "No active user, skipping bill rollover")
		return 0, nil
	}

	processed := 0
	for _, b := range st.Bills {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		if !IsDueForRollover(b, now) {
			continue
		}

		next, err := NextDueDate(b)
		if err != nil {
			p.logger.ErrorContext(ctx, "Failed to compute next due date",
				log.FieldEntityID, b.ID,
				"period", b.Period,
				log.FieldError, err)
			continue
		}

		rolled, err := p.ledger.RollOverBill(ctx, b.ID, next)
		if err != nil {
			p.logger.ErrorContext(ctx, "Failed to roll over bill",
				log.FieldEntityID, b.ID,
				log.FieldErrorKind, fmt.Sprint(core.KindOf(err)),
				log.FieldError, err)
			continue
		}

		processed++
		p.logger.InfoContext(ctx, "Bill rolled over",
			log.FieldEntityID, rolled.ID,
			"name", rolled.Name,
			"next_due", rolled.DueDate.Format(time.DateOnly),
			log.FieldAmount, rolled.Amount.StringFixed(2))
	}

	p.logger.InfoContext(ctx, "Bill rollover complete",
		"processed", processed,
		"total_checked", len(st.Bills),
		log.FieldUserID, st.UserID)

	return processed, nil
}

// Run processes due bills immediately and then on every tick until ctx is
// cancelled.
func (p *RecurringProcessor) Run(ctx context.Context, interval time.Duration, now func() time.Time) error {
	if interval <= 0 {
		return fmt.Errorf("invalid rollover interval: %s", interval)
	}
	if now == nil {
		now = time.Now
	}

	p.logger.InfoContext(ctx, "Bill rollover loop started",
		"interval", durafmt.Parse(interval).String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.tick(ctx, now())
	for {
		select {
		case <-ctx.Done():
			p.logger.InfoContext(ctx, "Bill rollover loop stopped", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			p.tick(ctx, now())
		}
	}
}

func (p *RecurringProcessor) tick(ctx context.Context, now time.Time) {
	start := time.Now()
	if _, err := p.ProcessDueBills(ctx, now); err != nil && !errors.Is(err, context.Canceled) {
		p.logger.ErrorContext(ctx, "Bill rollover failed", log.FieldError, err)
		return
	}
	p.logger.DebugContext(ctx, "Bill rollover pass finished",
		"took", durafmt.Parse(time.Since(start)).LimitFirstN(2).String())
}
