package models

import "time"

// Session is one time-boxed contact-collection unit. All time boundaries are
// fixed at creation; only DownloadCount and HiddenByCreatorAt ever change.
type Session struct {
	ID                  string
	ShortID             string
	GroupName           string
	CreatorIdentifier   string
	CreatedAt           time.Time
	DurationMinutes     int
	ExpiresAt           time.Time
	DeletionScheduledAt time.Time
	HiddenByCreatorAt   *time.Time
	DownloadCount       int64
	FileSequenceNumber  int64

	// ContactCount is an aggregate filled by listing queries.
	ContactCount int64
}
