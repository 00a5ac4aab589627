package amqp

import (
	"testing"
	"time"
)

func TestEntryEventDecoding(t *testing.T) {
	event := NewEntryEvent(101, OpUpsert)
	if event.Timestamp.IsZero() {
		t.Fatal("event has no timestamp")
	}

	body, err := event.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	got, err := EntryEventFromJSON(body)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != 101 || got.Op != OpUpsert {
		t.Fatalf("decoded event: %+v", got)
	}
	if !got.Timestamp.Equal(event.Timestamp.Truncate(time.Nanosecond)) {
		t.Fatalf("timestamp drifted: %v vs %v", got.Timestamp, event.Timestamp)
	}
}

func TestEntryEventRejectsGarbage(t *testing.T) {
	if _, err := EntryEventFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := EntryEventFromJSON([]byte(`{"id":1,"op":"truncate"}`)); err == nil {
		t.Fatal("expected unknown op error")
	}
}
