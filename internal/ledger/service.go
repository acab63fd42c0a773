// Package ledger implements every operation that changes a user's money:
// postings, transfers, goal funding, bill payment and the entity CRUD that
// must respect cross-entity rules.
//
// Each operation validates against a private copy of the store state and
// commits all of its changes at once, or none. Exactly one notify.Message is
// emitted per call describing the outcome.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneyx/internal/core"
	"moneyx/internal/log"
	"moneyx/internal/notify"
	"moneyx/internal/session"
	"moneyx/internal/store"
)

// Alert thresholds used when no option overrides them.
var (
	DefaultLowBalance       = decimal.NewFromInt(100)
	DefaultLargeTransaction = decimal.NewFromInt(1000)
)

// Service runs ledger operations for the user reported by the session.
type Service struct {
	store   *store.Store
	session session.Provider
	sink    notify.Sink
	logger  *log.Logger
	now     func() time.Time
	newID   func(prefix string) string

	lowBalance       decimal.Decimal
	largeTransaction decimal.Decimal
}

type Option func(*Service)

func WithSink(sink notify.Sink) Option {
	return func(s *Service) { s.sink = sink }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Service) { s.logger = logger.WithComponent(log.ComponentLedger) }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the uuid based id generator.
func WithIDGenerator(gen func(prefix string) string) Option {
	return func(s *Service) { s.newID = gen }
}

// WithAlertThresholds sets the balance under which a low balance
// notification is raised and the amount from which a transaction counts
// as large.
func WithAlertThresholds(lowBalance, largeTransaction decimal.Decimal) Option {
	return func(s *Service) {
		s.lowBalance = lowBalance
		s.largeTransaction = largeTransaction
	}
}

func New(st *store.Store, sess session.Provider, opts ...Option) *Service {
	s := &Service{
		store:            st,
		session:          sess,
		sink:             notify.Discard,
		logger:           log.Discard(),
		now:              time.Now,
		newID:            NewID,
		lowBalance:       DefaultLowBalance,
		largeTransaction: DefaultLargeTransaction,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns "<prefix>-<uuid>".
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Reset wipes the loaded state. It is registered as a session logout hook.
func (s *Service) Reset(ctx context.Context, userID string) {
	s.store.Reset()
	s.logger.InfoContext(ctx, "ledger state cleared", log.FieldUserID, userID)
}

// outcome carries what an operation reports to the sink.
type outcome struct {
	op          string
	title       string // success title
	description string // success description
	failTitle   string
	failDesc    string // shown for errors without a user facing message
	created     []core.Transaction
	removed     []core.Transaction

	entries, gone []notify.Entry
}

// run executes fn inside a store update for the active user and reports the
// outcome. fn fills in the success description once it knows the names.
func (s *Service) run(ctx context.Context, o *outcome, fn func(st *store.State) error) error {
	userID, ok := s.session.CurrentUserID()
	var err error
	if !ok {
		err = core.NoActiveUser(o.op)
	} else {
		err = s.store.Update(ctx, userID, func(st *store.State) error {
			if err := fn(st); err != nil {
				return err
			}
			o.entries = entries(st, o.created)
			o.gone = entries(st, o.removed)
			return nil
		})
	}
	s.report(ctx, userID, o, err)
	return err
}

func (s *Service) report(ctx context.Context, userID string, o *outcome, err error) {
	msg := notify.Message{
		Operation: o.op,
		UserID:    userID,
		Timestamp: s.now(),
	}
	fields := log.NewFields().WithOperation(o.op).WithUser(userID)
	if err != nil {
		msg.Kind = notify.Error
		msg.Title = o.failTitle
		msg.Description = describe(err, o.failDesc)
		fields = fields.WithError(err)
		fields[log.FieldErrorKind] = errorType(err)
		s.logger.WarnContext(ctx, "ledger operation rejected", fields.ToSlice()...)
	} else {
		msg.Kind = notify.Success
		msg.Title = o.title
		msg.Description = o.description
		msg.Transactions = o.entries
		msg.Removed = o.gone
		s.logger.DebugContext(ctx, "ledger operation committed", fields.ToSlice()...)
	}
	s.sink.Notify(ctx, msg)
}

func entries(st *store.State, txs []core.Transaction) []notify.Entry {
	if len(txs) == 0 {
		return nil
	}
	out := make([]notify.Entry, 0, len(txs))
	for _, tx := range txs {
		e := notify.Entry{Transaction: tx}
		if c := st.Category(tx.CategoryID); c != nil {
			e.CategoryName = c.Name
		}
		if a := st.Account(tx.AccountID); a != nil {
			e.AccountName = a.Name
		}
		out = append(out, e)
	}
	return out
}

// describe picks the user facing text for a failure.
func describe(err error, fallback string) string {
	var le *core.LedgerError
	if !errors.As(err, &le) {
		return fallback
	}
	switch {
	case le.Msg != "":
		return le.Msg
	case errors.Is(err, core.ErrNoActiveUser):
		return "You need to be signed in to do that"
	case le.Kind == core.ErrNotFound:
		return capitalize(le.Entity) + " not found"
	case le.Kind == core.ErrValidation && le.Err != nil:
		return "Invalid input: " + le.Err.Error()
	}
	return fallback
}

func errorType(err error) string {
	switch core.KindOf(err) {
	case core.ErrNotFound:
		return log.ErrorTypeNotFound
	case core.ErrInsufficientFunds:
		return log.ErrorTypeFunds
	case core.ErrReferentialIntegrity:
		return log.ErrorTypeConflict
	case core.ErrPreconditionFailed:
		return log.ErrorTypeAuth
	case core.ErrValidation:
		return log.ErrorTypeValidation
	}
	return log.ErrorTypeInternal
}

func capitalize(s string) string {
	if s == "" {
		return "Record"
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}

// money formats an amount in the user's preferred currency.
func money(st *store.State, d decimal.Decimal) string {
	return core.FormatMoney(st.Preferences.Currency, d)
}

func cents(d decimal.Decimal) decimal.Decimal { return d.Round(2) }
