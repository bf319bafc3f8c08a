package sessions

import (
	"context"
	"time"

	"github.com/contactgain/contactgain/internal/server/models"
)

type Repository interface {
	// Insert stores a new session. A short-id collision yields
	// common.ErrorConflict; the caller retries with a fresh token.
	Insert(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	GetByShortID(ctx context.Context, shortID string) (*models.Session, error)
	// ListByCreator returns the creator's visible sessions, newest first,
	// with aggregate contact counts.
	ListByCreator(ctx context.Context, creatorIdentifier string) ([]*models.Session, error)
	MarkHidden(ctx context.Context, sessionID, creatorIdentifier string, at time.Time) error
	IncrementDownloadCount(ctx context.Context, sessionID string) (int64, error)
	// ListOverdue returns ids of sessions whose retention window elapsed.
	ListOverdue(ctx context.Context, now time.Time) ([]string, error)
	// ListHiddenEmpty returns ids of creator-hidden, expired sessions that
	// never received a contact.
	ListHiddenEmpty(ctx context.Context, now time.Time) ([]string, error)
	DeleteByIDs(ctx context.Context, ids []string) error
}
