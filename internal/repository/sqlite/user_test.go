package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/davidrq/friendmap/internal/apperror"
	"github.com/davidrq/friendmap/internal/model"
)

func TestUserUpsert_Insert(t *testing.T) {
	u := newTestDB(t).Users()

	user := &model.User{Name: "Ana", Email: "ana@example.com"}
	if err := u.Upsert(context.Background(), user); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// The canonical record is written back through the pointer.
	if user.ID == "" {
		t.Error("Upsert() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Upsert() did not set user.CreatedAt")
	}
}

func TestUserUpsert_SameEmailKeepsOneRow(t *testing.T) {
	db := newTestDB(t)
	u := db.Users()

	first := upsertTestUser(t, u, "Ana", "ana@example.com")
	second := upsertTestUser(t, u, "Ana Maria", "ana@example.com")

	// Two callbacks for the same email share one row: same internal ID,
	// latest name wins.
	if second.ID != first.ID {
		t.Errorf("second Upsert() ID = %q, want existing ID %q", second.ID, first.ID)
	}

	found, err := u.GetByEmail(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if found.Name != "Ana Maria" {
		t.Errorf("Name = %q, want most recent name %q", found.Name, "Ana Maria")
	}
	if found.ID != first.ID {
		t.Errorf("ID = %q, want %q", found.ID, first.ID)
	}
}

func TestUserUpsert_PreservesCreatedAt(t *testing.T) {
	u := newTestDB(t).Users()

	first := upsertTestUser(t, u, "Ana", "ana@example.com")
	second := upsertTestUser(t, u, "Annie", "ana@example.com")

	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed on upsert: %v → %v", first.CreatedAt, second.CreatedAt)
	}
}

func TestUserGetByEmail(t *testing.T) {
	u := newTestDB(t).Users()
	created := upsertTestUser(t, u, "Bruno", "bruno@example.com")

	found, err := u.GetByEmail(context.Background(), "bruno@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
	if found.Name != "Bruno" {
		t.Errorf("Name = %q, want %q", found.Name, "Bruno")
	}
}

func TestUserGetByEmail_NotFound(t *testing.T) {
	u := newTestDB(t).Users()

	_, err := u.GetByEmail(context.Background(), "nobody@example.com")
	if err == nil {
		t.Fatal("GetByEmail() should have returned an error for an unknown email")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
	}
}
