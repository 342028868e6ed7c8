package amqp

import (
	"testing"
	"time"
)

func TestSnapshotRefreshedMessageRoundTrip(t *testing.T) {
	fetchedAt := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	msg := NewSnapshotRefreshedMessage(fetchedAt, 156)

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	got, err := SnapshotRefreshedMessageFromJSON(body)
	if err != nil {
		t.Fatal(err)
	}
	if !got.FetchedAt.Equal(fetchedAt) || got.RecordCount != 156 {
		t.Fatalf("unexpected message: %+v", got)
	}
}

func TestSnapshotRefreshedMessageRejectsGarbage(t *testing.T) {
	if _, err := SnapshotRefreshedMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
