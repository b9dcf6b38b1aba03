package sqlite

import (
	"context"
	"testing"

	"github.com/davidrq/friendmap/internal/model"
)

func TestEventCreate(t *testing.T) {
	e := newTestDB(t).Events()

	event := &model.Event{
		Name:         "Hackathon",
		Latitude:     40.416,
		Longitude:    -3.703,
		ImageURL:     "https://images.example.com/hack.png",
		CreatorEmail: "ana@example.com",
		CreatorName:  "Ana",
	}
	if err := e.Create(context.Background(), event); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if event.ID == "" {
		t.Error("Create() did not set event.ID")
	}
	if event.CreatedAt.IsZero() {
		t.Error("Create() did not set event.CreatedAt")
	}
}

func TestEventListByCreator(t *testing.T) {
	e := newTestDB(t).Events()

	createTestEvent(t, e, "Ana's first", "ana@example.com")
	createTestEvent(t, e, "Ana's second", "ana@example.com")
	createTestEvent(t, e, "Bruno's", "bruno@example.com")

	events, err := e.ListByCreator(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatalf("ListByCreator() error = %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("ListByCreator() returned %d events, want 2", len(events))
	}
	for _, ev := range events {
		if ev.CreatorEmail != "ana@example.com" {
			t.Errorf("event %q has creator %q, want ana@example.com", ev.Name, ev.CreatorEmail)
		}
	}
}

func TestEventListByCreator_Empty(t *testing.T) {
	e := newTestDB(t).Events()

	events, err := e.ListByCreator(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("ListByCreator() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("ListByCreator() returned %d events, want 0", len(events))
	}
}

func TestEventDeleteOwned(t *testing.T) {
	e := newTestDB(t).Events()
	event := createTestEvent(t, e, "Mine", "ana@example.com")

	if err := e.DeleteOwned(context.Background(), event.ID, "ana@example.com"); err != nil {
		t.Fatalf("DeleteOwned() error = %v", err)
	}

	events, err := e.ListByCreator(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatalf("ListByCreator() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("event still present after DeleteOwned, got %d events", len(events))
	}
}

func TestEventDeleteOwned_WrongOwnerIsNoOp(t *testing.T) {
	e := newTestDB(t).Events()
	event := createTestEvent(t, e, "Ana's event", "ana@example.com")

	// A delete scoped to someone else's email matches zero rows and must
	// not surface an error, so callers cannot probe for existence.
	if err := e.DeleteOwned(context.Background(), event.ID, "mallory@example.com"); err != nil {
		t.Fatalf("DeleteOwned() with wrong owner error = %v, want nil", err)
	}

	events, err := e.ListByCreator(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatalf("ListByCreator() error = %v", err)
	}
	if len(events) != 1 {
		t.Errorf("store changed by unauthorized delete: %d events, want 1", len(events))
	}
}

func TestEventDeleteOwned_MissingIDIsNoOp(t *testing.T) {
	e := newTestDB(t).Events()

	if err := e.DeleteOwned(context.Background(), "no-such-id", "ana@example.com"); err != nil {
		t.Fatalf("DeleteOwned() with unknown id error = %v, want nil", err)
	}
}
