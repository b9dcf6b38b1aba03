package model

import "time"

// Event is a point of interest pinned to a user's map.
//
// CreatorName and CreatorEmail are denormalised onto the event so listing a
// map never joins against users. The email is the authoritative owner key:
// deletes match on (id, creator_email) so a user can only remove their own.
//
// WHY ImageURL string AND NOT *string?
// An event without a picture simply has an empty URL. The empty string zero
// value is safe to render and saves pointer nil checks everywhere, the same
// trade-off the rest of the models make for optional text fields.
type Event struct {
	ID           string    `json:"id"           db:"id"`
	Name         string    `json:"name"         db:"name"`
	Latitude     float64   `json:"latitude"     db:"latitude"`
	Longitude    float64   `json:"longitude"    db:"longitude"`
	ImageURL     string    `json:"imageUrl,omitempty" db:"image_url"` // empty = no image
	CreatorEmail string    `json:"creatorEmail" db:"creator_email"`
	CreatorName  string    `json:"creatorName"  db:"creator_name"`
	CreatedAt    time.Time `json:"createdAt"    db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt"    db:"updated_at"`
}
