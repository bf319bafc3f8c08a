// This file implements ContactService, the submission path for contacts.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/contactgain/contactgain/internal/common"
	"github.com/contactgain/contactgain/internal/server/config"
	"github.com/contactgain/contactgain/internal/server/models"
	"github.com/contactgain/contactgain/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// phoneRegexp is the international-dialing rule: a leading +, a 1–3 digit
// country code not starting with 0, then an 8–15 digit subscriber number.
// Whitespace is stripped before matching, never rejected.
var (
	phoneRegexp      = regexp.MustCompile(`^\+[1-9]\d{0,2}\d{8,15}$`)
	whitespaceRegexp = regexp.MustCompile(`\s+`)
)

// ContactService validates and stores submissions into open sessions.
type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager

	now func() time.Time
}

// NewContactService constructs a ContactService using repositories and
// server config.
func NewContactService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *ContactService {
	return &ContactService{
		db:          db,
		repomanager: m,
		now:         time.Now,
	}
}

// Submit runs the precondition chain in order, each failure a distinct
// outcome: unknown session (ErrorNotFound), closed window
// (ErrorWindowClosed), missing fields (ErrorValidation), malformed phone
// (ErrorInvalidPhone), and per-session name reuse (ErrorDuplicateName).
//
// The duplicate check is the store's unique index on
// (session_id, lower(name)); concurrent first submissions with the same
// name race at insert time and exactly one wins. Any browser-local
// "already submitted" marker is advisory only and never consulted here.
func (s *ContactService) Submit(ctx context.Context, sessionID, name, phone, email string) (*models.Contact, error) {
	session, err := s.repomanager.Sessions(s.db).GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading session: %w", err)
	}

	if !s.now().Before(session.ExpiresAt) {
		return nil, common.ErrorWindowClosed
	}

	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return nil, common.ErrorValidation
	}

	phone = whitespaceRegexp.ReplaceAllString(phone, "")
	if !phoneRegexp.MatchString(phone) {
		return nil, common.ErrorInvalidPhone
	}

	contact := &models.Contact{
		ID:          uuid.NewString(),
		SessionID:   session.ID,
		Name:        name,
		Phone:       phone,
		Email:       strings.TrimSpace(email),
		SubmittedAt: s.now(),
	}

	if err := s.repomanager.Contacts(s.db).Insert(ctx, contact); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorDuplicateName
		}
		return nil, fmt.Errorf("error inserting contact: %w", err)
	}

	return contact, nil
}

// List returns the session's contacts in submission order.
func (s *ContactService) List(ctx context.Context, sessionID string) ([]*models.Contact, error) {
	return s.repomanager.Contacts(s.db).ListBySession(ctx, sessionID)
}
