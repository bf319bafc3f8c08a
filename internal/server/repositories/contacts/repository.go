package contacts

import (
	"context"

	"github.com/contactgain/contactgain/internal/server/models"
)

type Repository interface {
	// Insert stores a new contact. A per-session name collision (unique on
	// session_id + lower(name)) yields common.ErrorConflict.
	Insert(ctx context.Context, contact *models.Contact) error
	ListBySession(ctx context.Context, sessionID string) ([]*models.Contact, error)
	// DeleteForSessions removes all contacts owned by the given sessions.
	// The garbage collector calls this before deleting the sessions
	// themselves so no orphaned rows survive.
	DeleteForSessions(ctx context.Context, sessionIDs []string) error
}
