package amqp

import (
	"encoding/json"
	"time"

	"budget/internal/core"
)

// TransactionRecordedMessage announces a transaction that was appended and persisted
type TransactionRecordedMessage struct {
	Position    int         `json:"position"`
	Date        string      `json:"date"`
	Amount      core.Amount `json:"amount"`
	Category    string      `json:"category"`
	Type        core.Kind   `json:"type"`
	Description string      `json:"description"`
	Timestamp   time.Time   `json:"timestamp"`
}

// NewTransactionRecordedMessage builds the message for the transaction at the given 1-based position
func NewTransactionRecordedMessage(position int, t core.Transaction) *TransactionRecordedMessage {
	return &TransactionRecordedMessage{
		Position:    position,
		Date:        t.FormatDate(),
		Amount:      t.Amount,
		Category:    t.Category,
		Type:        t.Kind,
		Description: t.Description,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionRecordedMessageFromJSON creates a message from JSON bytes
func TransactionRecordedMessageFromJSON(data []byte) (*TransactionRecordedMessage, error) {
	var msg TransactionRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
