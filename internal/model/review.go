package model

import "time"

// Rating bounds for a review.
const (
	MinRating = 0
	MaxRating = 5
)

// Review is a location-tagged rating of an establishment, published to a
// shared feed (reviews are listed for everyone, unlike events which are
// scoped to one owner's map).
//
// The OAuth access token the author logged in with is persisted alongside the
// review, together with its issue and expiry times. The token is stored as
// plain text: it is a short-lived bearer token and the store is trusted, but
// it should never be rendered to other users.
type Review struct {
	ID                string    `json:"id"                db:"id"`
	EstablishmentName string    `json:"establishmentName" db:"establishment_name"`
	Address           string    `json:"address"           db:"address"`
	Latitude          float64   `json:"latitude"          db:"latitude"`
	Longitude         float64   `json:"longitude"         db:"longitude"`
	Rating            int       `json:"rating"            db:"rating"` // MinRating..MaxRating
	AuthorName        string    `json:"authorName"        db:"author_name"`
	AuthorEmail       string    `json:"authorEmail"       db:"author_email"`
	AccessToken       string    `json:"-"                 db:"access_token"` // never serialised to clients
	TokenIssuedAt     time.Time `json:"tokenIssuedAt"     db:"token_issued_at"`
	TokenExpiresAt    time.Time `json:"tokenExpiresAt"    db:"token_expires_at"`
	ImageURL          string    `json:"imageUrl,omitempty" db:"image_url"` // empty = no image
	CreatedAt         time.Time `json:"createdAt"         db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt"         db:"updated_at"`
}
