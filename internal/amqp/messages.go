package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"ghostledger/internal/core"
)

// ChangeMessage announces a committed ledger mutation. It carries no ledger
// data; consumers reload the storage slot named by Key.
type ChangeMessage struct {
	Key       string      `json:"key"`
	Change    core.Change `json:"change"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewChangeMessage(key string, c core.Change) *ChangeMessage {
	return &ChangeMessage{Key: key, Change: c, Timestamp: time.Now()}
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON decodes a message, rejecting ones without a key or
// entity.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Key == "" || msg.Change.Entity == "" {
		return nil, fmt.Errorf("change message missing key or entity")
	}
	return &msg, nil
}
