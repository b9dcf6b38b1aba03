package model

import "time"

// Visit records "visitor looked at host's map". Rows are written as a side
// effect of a non-owner map view and are append-only: never updated, never
// deleted, never deduplicated. Every page load by a visitor is its own row.
type Visit struct {
	ID           string    `json:"id"           db:"id"`
	HostEmail    string    `json:"hostEmail"    db:"host_email"`    // owner of the visited map
	VisitorName  string    `json:"visitorName"  db:"visitor_name"`  // display name of the viewer
	VisitorEmail string    `json:"visitorEmail" db:"visitor_email"` // email of the viewer
	Timestamp    time.Time `json:"timestamp"    db:"timestamp"`     // set by the store at insert
}

// DisplayTime formats the visit timestamp the way the map page shows it.
func (v Visit) DisplayTime() string {
	return v.Timestamp.Format("02/01/2006 15:04")
}
