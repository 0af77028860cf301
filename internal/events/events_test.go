package events

import (
	"encoding/json"
	"testing"
)

func TestPublishReachesSubscribers(t *testing.T) {
	bus := NewEventBus()

	var got []Event
	bus.Subscribe("reservation.created", func(e Event) error {
		got = append(got, e)
		return nil
	})
	bus.Subscribe("reservation.deleted", func(e Event) error {
		t.Fatal("handler for another type must not fire")
		return nil
	})

	bus.Publish(Event{Type: "reservation.created", Payload: []byte(`{"id":1}`)})

	if len(got) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(got))
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("publish must stamp CreatedAt")
	}
}

func TestPublishJSON(t *testing.T) {
	bus := NewEventBus()

	var payload map[string]any
	bus.Subscribe("reservation.created", func(e Event) error {
		return json.Unmarshal(e.Payload, &payload)
	})

	err := bus.PublishJSON("reservation.created", map[string]any{"id": 7, "status": "booked"})
	if err != nil {
		t.Fatalf("PublishJSON: %v", err)
	}
	if payload["status"] != "booked" {
		t.Errorf("payload = %v, want status booked", payload)
	}

	if err := bus.PublishJSON("reservation.created", func() {}); err == nil {
		t.Error("unmarshalable payload must error")
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := NewEventBus()
	// Must not panic.
	bus.Publish(Event{Type: "reservation.status_changed"})
}
