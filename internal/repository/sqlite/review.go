package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/davidrq/friendmap/internal/apperror"
	"github.com/davidrq/friendmap/internal/model"
	"github.com/davidrq/friendmap/internal/repository"
)

var _ repository.ReviewRepository = (*ReviewDB)(nil)

// ReviewDB implements repository.ReviewRepository over the shared pool.
type ReviewDB struct {
	conn *sql.DB
}

const reviewColumns = `id, establishment_name, address, latitude, longitude, rating,
	author_name, author_email, access_token, token_issued_at, token_expires_at,
	image_url, created_at, updated_at`

// Create inserts a new review, assigning its ID and timestamps.
func (db *ReviewDB) Create(ctx context.Context, review *model.Review) error {
	review.ID = xid.New().String()
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO reviews (`+reviewColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		review.ID,
		review.EstablishmentName,
		review.Address,
		review.Latitude,
		review.Longitude,
		review.Rating,
		review.AuthorName,
		review.AuthorEmail,
		review.AccessToken,
		review.TokenIssuedAt,
		review.TokenExpiresAt,
		review.ImageURL,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating review: %w", err)
	}

	return nil
}

// List returns all reviews, newest first. The feed is shared across all
// users, so there is no author filter.
func (db *ReviewDB) List(ctx context.Context) ([]model.Review, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing reviews: %w", err)
	}
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		var rv model.Review
		if err := scanReview(rows, &rv); err != nil {
			return nil, fmt.Errorf("sqlite: scanning review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating reviews: %w", err)
	}

	return reviews, nil
}

// GetByID retrieves a single review.
// Returns apperror.ErrNotFound if no review exists with that ID.
func (db *ReviewDB) GetByID(ctx context.Context, id string) (*model.Review, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id,
	)

	var rv model.Review
	if err := scanReview(row, &rv); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("review", id)
		}
		return nil, fmt.Errorf("sqlite: getting review %s: %w", id, err)
	}

	return &rv, nil
}

// scanner matches both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanReview(s scanner, rv *model.Review) error {
	return s.Scan(
		&rv.ID,
		&rv.EstablishmentName,
		&rv.Address,
		&rv.Latitude,
		&rv.Longitude,
		&rv.Rating,
		&rv.AuthorName,
		&rv.AuthorEmail,
		&rv.AccessToken,
		&rv.TokenIssuedAt,
		&rv.TokenExpiresAt,
		&rv.ImageURL,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
}
