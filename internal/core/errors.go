package core

import (
	"errors"
	"fmt"
)

// Error kinds returned by ledger operations. Match them with errors.Is.
var (
	ErrNotFound             = errors.New("not found")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrReferentialIntegrity = errors.New("entity has dependent records")
	ErrPreconditionFailed   = errors.New("precondition failed")
	ErrValidation           = errors.New("validation failed")

	// ErrNoActiveUser is wrapped by PreconditionFailed errors raised when
	// nobody is signed in.
	ErrNoActiveUser = errors.New("no active user")
)

// LedgerError describes a failed ledger operation.
type LedgerError struct {
	Op     string // operation name, e.g. "transfer"
	Kind   error  // one of the Err* kinds above
	Entity string // entity kind involved, e.g. "account"
	ID     string
	Msg    string
	Err    error // underlying cause, if any
}

func (e *LedgerError) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Entity != "" {
		msg += " (" + e.Entity
		if e.ID != "" {
			msg += " " + e.ID
		}
		msg += ")"
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is the error kind or the wrapped cause.
func (e *LedgerError) Is(target error) bool {
	return target == e.Kind
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NotFound builds a NotFound error for the given entity.
func NotFound(op, entity, id string) *LedgerError {
	return &LedgerError{Op: op, Kind: ErrNotFound, Entity: entity, ID: id}
}

// InsufficientFunds builds an InsufficientFunds error for an account.
func InsufficientFunds(op, accountID, msg string) *LedgerError {
	return &LedgerError{Op: op, Kind: ErrInsufficientFunds, Entity: "account", ID: accountID, Msg: msg}
}

// InUse builds a ReferentialIntegrity error.
func InUse(op, entity, id, msg string) *LedgerError {
	return &LedgerError{Op: op, Kind: ErrReferentialIntegrity, Entity: entity, ID: id, Msg: msg}
}

// Precondition builds a PreconditionFailed error.
func Precondition(op, msg string) *LedgerError {
	return &LedgerError{Op: op, Kind: ErrPreconditionFailed, Msg: msg}
}

// NoActiveUser builds the PreconditionFailed error for a missing session.
func NoActiveUser(op string) *LedgerError {
	return &LedgerError{Op: op, Kind: ErrPreconditionFailed, Err: ErrNoActiveUser}
}

// Invalid wraps a validation failure.
func Invalid(op string, err error) *LedgerError {
	return &LedgerError{Op: op, Kind: ErrValidation, Err: err}
}

// Invalidf builds a validation failure from a message.
func Invalidf(op, format string, args ...any) *LedgerError {
	return &LedgerError{Op: op, Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the ledger error kind carried by err, or nil.
func KindOf(err error) error {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Kind
	}
	for _, k := range []error{ErrNotFound, ErrInsufficientFunds, ErrReferentialIntegrity, ErrPreconditionFailed, ErrValidation} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
