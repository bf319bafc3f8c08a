package models

import "time"

// Contact is a single submission. Contacts are never updated; they live and
// die with their owning session.
type Contact struct {
	ID          string
	SessionID   string
	Name        string
	Phone       string
	Email       string
	SubmittedAt time.Time
}
