// Package events describes the change notifications emitted after a
// transaction is created, updated or deleted.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

type EventType string

const (
	TransactionCreated EventType = "transaction.created"
	TransactionUpdated EventType = "transaction.updated"
	TransactionDeleted EventType = "transaction.deleted"
)

// TransactionEvent is the JSON payload published to the broker. Deleted
// events carry only the ID.
type TransactionEvent struct {
	EventID       string          `json:"event_id"`
	Type          EventType       `json:"type"`
	TransactionID int64           `json:"transaction_id"`
	Date          string          `json:"date,omitempty"`
	Title         string          `json:"title,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Publisher delivers transaction events to a broker.
type Publisher interface {
	Publish(ctx context.Context, ev TransactionEvent) error
	Close() error
}

func NewTransactionEvent(typ EventType, tx core.Transaction) TransactionEvent {
	return TransactionEvent{
		EventID:       uuid.NewString(),
		Type:          typ,
		TransactionID: tx.ID,
		Date:          tx.Date,
		Title:         tx.Title,
		Amount:        tx.Amount,
		Category:      tx.Category.String(),
		Timestamp:     time.Now().UTC(),
	}
}

func NewDeletedEvent(id int64) TransactionEvent {
	return TransactionEvent{
		EventID:       uuid.NewString(),
		Type:          TransactionDeleted,
		TransactionID: id,
		Timestamp:     time.Now().UTC(),
	}
}

// Key partitions events so that every change to one transaction lands in
// the same partition or routing slot.
func (e TransactionEvent) Key() string {
	return strconv.FormatInt(e.TransactionID, 10)
}

func (e TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func FromJSON(data []byte) (TransactionEvent, error) {
	var ev TransactionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return TransactionEvent{}, err
	}
	return ev, nil
}

// Nop discards every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, TransactionEvent) error { return nil }
func (Nop) Close() error                                    { return nil }
