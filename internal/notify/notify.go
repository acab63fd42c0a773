// Package notify delivers the outcome of every ledger operation to
// interested parties: the log, the event feed, tests.
package notify

import (
	"context"
	"sync"
	"time"

	"moneyx/internal/core"
	"moneyx/internal/log"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

// Entry is a transaction as committed, with the names its references
// resolved to at that moment.
type Entry struct {
	core.Transaction
	CategoryName string `json:"categoryName,omitempty"`
	AccountName  string `json:"accountName,omitempty"`
}

// Message describes one operation outcome. Transactions lists the
// transactions the operation created and Removed the ones it deleted.
type Message struct {
	Kind         Kind      `json:"kind"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Operation    string    `json:"operation"`
	UserID       string    `json:"userId,omitempty"`
	Transactions []Entry   `json:"transactions,omitempty"`
	Removed      []Entry   `json:"removed,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Sink receives messages. Implementations must not block for long; the
// ledger calls Notify synchronously after each operation.
type Sink interface {
	Notify(ctx context.Context, msg Message)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, msg Message)

func (f SinkFunc) Notify(ctx context.Context, msg Message) { f(ctx, msg) }

// Discard drops every message.
var Discard Sink = SinkFunc(func(context.Context, Message) {})

// LogSink writes messages to a logger.
type LogSink struct {
	logger *log.Logger
}

func NewLogSink(logger *log.Logger) *LogSink {
	return &LogSink{logger: logger.WithComponent(log.ComponentNotify)}
}

func (s *LogSink) Notify(ctx context.Context, msg Message) {
	args := []any{
		log.FieldOperation, msg.Operation,
		log.FieldUserID, msg.UserID,
		"title", msg.Title,
		log.FieldDescription, msg.Description,
	}
	if msg.Kind == Error {
		s.logger.WarnContext(ctx, "ledger operation failed", args...)
		return
	}
	s.logger.InfoContext(ctx, "ledger operation succeeded", args...)
}

// Multi fans a message out to several sinks in order.
type Multi []Sink

func (m Multi) Notify(ctx context.Context, msg Message) {
	for _, s := range m {
		if s != nil {
			s.Notify(ctx, msg)
		}
	}
}

// Recorder keeps every message in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Notify(_ context.Context, msg Message) {
	r.mu.Lock()
	r.messages = append(r.messages, msg)
	r.mu.Unlock()
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Last returns the most recent message.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.messages = nil
	r.mu.Unlock()
}
