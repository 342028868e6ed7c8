package amqp

import (
	"encoding/json"
	"time"
)

// SnapshotRefreshedMessage tells dashboard instances that the worker wrote
// a fresh portfolio snapshot, so their record caches should be dropped.
type SnapshotRefreshedMessage struct {
	FetchedAt   time.Time `json:"fetched_at"`
	RecordCount int       `json:"record_count"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewSnapshotRefreshedMessage(fetchedAt time.Time, recordCount int) *SnapshotRefreshedMessage {
	return &SnapshotRefreshedMessage{
		FetchedAt:   fetchedAt,
		RecordCount: recordCount,
		Timestamp:   time.Now(),
	}
}

func (m *SnapshotRefreshedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SnapshotRefreshedMessageFromJSON(data []byte) (*SnapshotRefreshedMessage, error) {
	var msg SnapshotRefreshedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
