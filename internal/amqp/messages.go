package amqp

import (
	"encoding/json"
	"time"

	"spendlog/internal/core"
)

// ExpenseMessage is the wire form of one record inside a snapshot.
type ExpenseMessage struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Amount   string    `json:"amount"`
	Date     time.Time `json:"date"`
}

// SnapshotMessage carries the whole record list at the moment a sync was
// requested. Amounts are decimal strings to keep them exact.
type SnapshotMessage struct {
	RequestedAt time.Time        `json:"requested_at"`
	Count       int              `json:"count"`
	Total       string           `json:"total"`
	Expenses    []ExpenseMessage `json:"expenses"`
}

// NewSnapshotMessage builds a snapshot message from records.
func NewSnapshotMessage(records []core.Expense, requestedAt time.Time) *SnapshotMessage {
	msg := &SnapshotMessage{
		RequestedAt: requestedAt,
		Count:       len(records),
		Total:       core.FormatAmount(core.Total(records)),
		Expenses:    make([]ExpenseMessage, 0, len(records)),
	}
	for _, e := range records {
		msg.Expenses = append(msg.Expenses, ExpenseMessage{
			ID:       e.ID,
			Title:    e.Title,
			Category: e.Category.String(),
			Amount:   e.Amount.String(),
			Date:     e.Date,
		})
	}
	return msg
}

func (m *SnapshotMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SnapshotMessageFromJSON(data []byte) (*SnapshotMessage, error) {
	var msg SnapshotMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
