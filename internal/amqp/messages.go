package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"ledger/internal/core"
)

// EntryRecordedMessage announces an entry that is already durable in the
// ledger. It carries the full entry in its persisted textual form so
// consumers never need to read the ledger back.
type EntryRecordedMessage struct {
	Date        string    `json:"date"`
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	RecordedAt  time.Time `json:"recorded_at"`
}

func NewEntryRecordedMessage(e core.Entry) *EntryRecordedMessage {
	return &EntryRecordedMessage{
		Date:        e.Date.String(),
		Amount:      core.FormatAmount(e.Amount),
		Category:    e.Category.String(),
		Description: e.Description,
		RecordedAt:  time.Now().UTC(),
	}
}

// Entry decodes the message back into a validated entry.
func (m *EntryRecordedMessage) Entry() (core.Entry, error) {
	d, err := core.ParseDate(m.Date, false)
	if err != nil {
		return core.Entry{}, fmt.Errorf("message date: %w", err)
	}
	a, err := core.ParseAmount(m.Amount)
	if err != nil {
		return core.Entry{}, fmt.Errorf("message amount: %w", err)
	}
	c, err := core.ParseStoredCategory(m.Category)
	if err != nil {
		return core.Entry{}, fmt.Errorf("message category: %w", err)
	}
	return core.Entry{Date: d, Amount: a, Category: c, Description: m.Description}, nil
}

func (m *EntryRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntryRecordedMessageFromJSON(data []byte) (*EntryRecordedMessage, error) {
	var msg EntryRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
