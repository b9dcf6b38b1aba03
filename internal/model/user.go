// Package model defines the record types stored by the application.
package model

import "time"

// User represents an account created through the Google OAuth login.
//
// Email is the natural external key: every other record references its owner
// by email, and the callback upserts on it. We still generate our own internal
// string ID (xid) so primary keys don't depend on anything the identity
// provider controls.
//
// Ownership checks elsewhere are plain string equality on Email, with no
// case normalisation beyond what Google guarantees.
type User struct {
	ID        string    `json:"id"        db:"id"`
	Name      string    `json:"name"      db:"name"`  // display name from the provider claims
	Email     string    `json:"email"     db:"email"` // unique, provider-verified
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
