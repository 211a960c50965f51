package amqp

import (
	"encoding/json"
	"time"
)

// Sync actions carried on the queue.
const (
	ActionUpsert = "upsert"
	ActionDelete = "delete"
)

// TransactionSyncMessage tells the worker a transaction changed. It carries
// only identifiers; the worker fetches the current row from the database so
// a stale queue entry cannot overwrite newer data.
type TransactionSyncMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionSyncMessage(id, userID, action string) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		ID:        id,
		UserID:    userID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
