package sqlite

import (
	"context"
	"testing"

	"github.com/davidrq/friendmap/internal/model"
)

// newTestDB returns a DB backed by an in-memory SQLite database that lives
// only for the duration of the test.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// upsertTestUser creates (or updates) a user and fails the test on error.
func upsertTestUser(t *testing.T, u *UserDB, name, email string) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: email}
	if err := u.Upsert(context.Background(), user); err != nil {
		t.Fatalf("failed to upsert test user: %v", err)
	}
	return user
}

// createTestEvent creates an event and fails the test on error.
func createTestEvent(t *testing.T, e *EventDB, name, creatorEmail string) *model.Event {
	t.Helper()
	event := &model.Event{
		Name:         name,
		Latitude:     40.416,
		Longitude:    -3.703,
		CreatorEmail: creatorEmail,
		CreatorName:  "Test User",
	}
	if err := e.Create(context.Background(), event); err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}
	return event
}
