package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Entry event operations.
const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// EntryEvent is a lightweight notification that an entry changed. It
// carries only the id and operation; the consumer fetches the current
// record from the repository when mirroring.
type EntryEvent struct {
	ID        int64     `json:"id"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntryEvent(id int64, op string) *EntryEvent {
	return &EntryEvent{ID: id, Op: op, Timestamp: time.Now()}
}

func (e *EntryEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EntryEventFromJSON(data []byte) (*EntryEvent, error) {
	var e EntryEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal entry event: %w", err)
	}
	if e.Op != OpUpsert && e.Op != OpDelete {
		return nil, fmt.Errorf("unknown entry event op %q", e.Op)
	}
	return &e, nil
}
