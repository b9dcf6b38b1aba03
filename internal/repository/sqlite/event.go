package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/davidrq/friendmap/internal/model"
	"github.com/davidrq/friendmap/internal/repository"
)

var _ repository.EventRepository = (*EventDB)(nil)

// EventDB implements repository.EventRepository over the shared pool.
type EventDB struct {
	conn *sql.DB
}

// Create inserts a new event. The ID (xid: 20 chars, URL-safe, sortable by
// creation time) and timestamps are assigned here and written back through
// the pointer, so the caller's event carries them after the call.
func (db *EventDB) Create(ctx context.Context, event *model.Event) error {
	event.ID = xid.New().String()
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO events (id, name, latitude, longitude, image_url, creator_email, creator_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.Name,
		event.Latitude,
		event.Longitude,
		event.ImageURL,
		event.CreatorEmail,
		event.CreatorName,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating event: %w", err)
	}

	return nil
}

// ListByCreator returns every event created by the given email, oldest first.
func (db *EventDB) ListByCreator(ctx context.Context, creatorEmail string) ([]model.Event, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, latitude, longitude, image_url, creator_email, creator_name, created_at, updated_at
		 FROM events
		 WHERE creator_email = ?
		 ORDER BY created_at ASC`,
		creatorEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing events for %s: %w", creatorEmail, err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Latitude, &e.Longitude, &e.ImageURL,
			&e.CreatorEmail, &e.CreatorName, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating events: %w", err)
	}

	return events, nil
}

// DeleteOwned removes an event only when both id and creator email match.
//
// A delete aimed at another user's event (or a nonexistent id) matches zero
// rows and returns nil: the caller gets a redirect either way, and the
// response must not reveal whether the event exists. This is not a NotFound
// case.
func (db *EventDB) DeleteOwned(ctx context.Context, id, creatorEmail string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM events WHERE id = ? AND creator_email = ?`,
		id, creatorEmail,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting event %s: %w", id, err)
	}
	return nil
}
