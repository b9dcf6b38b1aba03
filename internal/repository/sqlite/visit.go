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

var _ repository.VisitRepository = (*VisitDB)(nil)

// VisitDB implements repository.VisitRepository over the shared pool.
type VisitDB struct {
	conn *sql.DB
}

// Create appends a visit row. The timestamp is assigned here (insert time)
// when the caller left it zero, so a visit records when the page was served.
//
// There is no dedup: the same visitor reloading the same map produces one
// row per load. The visit log is a log.
func (db *VisitDB) Create(ctx context.Context, visit *model.Visit) error {
	visit.ID = xid.New().String()
	if visit.Timestamp.IsZero() {
		visit.Timestamp = time.Now()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO visits (id, host_email, visitor_name, visitor_email, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		visit.ID,
		visit.HostEmail,
		visit.VisitorName,
		visit.VisitorEmail,
		visit.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating visit: %w", err)
	}

	return nil
}

// ListByHost returns all visits received by the host, newest first.
func (db *VisitDB) ListByHost(ctx context.Context, hostEmail string) ([]model.Visit, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, host_email, visitor_name, visitor_email, timestamp
		 FROM visits
		 WHERE host_email = ?
		 ORDER BY timestamp DESC`,
		hostEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing visits for %s: %w", hostEmail, err)
	}
	defer rows.Close()

	visits := []model.Visit{}
	for rows.Next() {
		var v model.Visit
		if err := rows.Scan(
			&v.ID, &v.HostEmail, &v.VisitorName, &v.VisitorEmail, &v.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning visit row: %w", err)
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating visits: %w", err)
	}

	return visits, nil
}
