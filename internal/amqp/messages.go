package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"moneyx/internal/notify"
)

// LedgerEventMessage is the wire form of a ledger operation outcome. It
// carries the transactions the operation created and removed so consumers
// never need to read the ledger back.
type LedgerEventMessage struct {
	ID           string         `json:"id"`
	Operation    string         `json:"operation"`
	Kind         notify.Kind    `json:"kind"`
	UserID       string         `json:"userId"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Transactions []notify.Entry `json:"transactions,omitempty"`
	Removed      []notify.Entry `json:"removed,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// NewLedgerEventMessage wraps a notification in a message with a fresh id.
func NewLedgerEventMessage(m notify.Message) *LedgerEventMessage {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return &LedgerEventMessage{
		ID:           uuid.NewString(),
		Operation:    m.Operation,
		Kind:         m.Kind,
		UserID:       m.UserID,
		Title:        m.Title,
		Description:  m.Description,
		Transactions: m.Transactions,
		Removed:      m.Removed,
		Timestamp:    ts,
	}
}

// HasChanges reports whether the event created or removed transactions.
func (m *LedgerEventMessage) HasChanges() bool {
	return m.Kind == notify.Success && (len(m.Transactions) > 0 || len(m.Removed) > 0)
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
