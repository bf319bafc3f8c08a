// Package services contains server-side business logic. This file implements
// SessionService: session creation with collision-retried short ids, listing,
// hiding, lifecycle status, and VCF download production.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/contactgain/contactgain/internal/common"
	"github.com/contactgain/contactgain/internal/lifecycle"
	"github.com/contactgain/contactgain/internal/server/config"
	"github.com/contactgain/contactgain/internal/server/models"
	"github.com/contactgain/contactgain/internal/server/repositories/repomanager"
	"github.com/contactgain/contactgain/internal/shortid"
	"github.com/contactgain/contactgain/internal/vcf"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

// shortIDInsertRetries bounds how many fresh tokens are tried after the
// first insert conflict before the error surfaces to the caller.
const shortIDInsertRetries = 4

// Download bundles the encoded document and its stable filename.
type Download struct {
	Filename string
	Content  string
}

// Status is a session's derived lifecycle state plus countdown text, with
// the creator flag the presentation layer needs to pick a view.
type Status struct {
	Phase     lifecycle.Phase
	Countdown string
	IsCreator bool
}

// SessionService owns the session lifecycle: creation, listing, hiding,
// status derivation, and download production.
type SessionService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	retentionWindow time.Duration
	vcfBaseLabel    string

	// overridable in tests
	now        func() time.Time
	newShortID func() (string, error)
}

// NewSessionService constructs a SessionService using repositories and
// server config.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SessionService {
	return &SessionService{
		db:              db,
		repomanager:     m,
		retentionWindow: cfg.RetentionWindow,
		vcfBaseLabel:    cfg.VCFBaseLabel,
		now:             time.Now,
		newShortID:      shortid.New,
	}
}

// Create opens a new session for the creator. The file sequence number is
// consumed exactly once, before the insert, so short-id retries never burn
// extra counter values.
func (s *SessionService) Create(ctx context.Context, groupName string, durationMinutes int, creatorIdentifier string) (*models.Session, error) {
	groupName = strings.TrimSpace(groupName)
	if groupName == "" || durationMinutes <= 0 || creatorIdentifier == "" {
		return nil, common.ErrorValidation
	}

	seq, err := s.repomanager.Counters(s.db).IncrementAndRead(ctx, common.VCFCounterName)
	if err != nil {
		return nil, fmt.Errorf("error incrementing vcf counter: %w", err)
	}

	now := s.now()
	expiresAt := now.Add(time.Duration(durationMinutes) * time.Minute)
	session := &models.Session{
		ID:                  uuid.NewString(),
		GroupName:           groupName,
		CreatorIdentifier:   creatorIdentifier,
		CreatedAt:           now,
		DurationMinutes:     durationMinutes,
		ExpiresAt:           expiresAt,
		DeletionScheduledAt: expiresAt.Add(s.retentionWindow),
		FileSequenceNumber:  seq,
	}

	repo := s.repomanager.Sessions(s.db)
	backoff := retry.WithMaxRetries(shortIDInsertRetries, retry.NewConstant(10*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		token, err := s.newShortID()
		if err != nil {
			return err
		}
		session.ShortID = token
		if err := repo.Insert(ctx, session); err != nil {
			if errors.Is(err, common.ErrorConflict) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, fmt.Errorf("%w: short id attempts exhausted", common.ErrorStoreUnavailable)
		}
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	return session, nil
}

// List returns the creator's visible sessions with contact counts, newest
// first.
func (s *SessionService) List(ctx context.Context, creatorIdentifier string) ([]*models.Session, error) {
	return s.repomanager.Sessions(s.db).ListByCreator(ctx, creatorIdentifier)
}

// GetByShortID resolves a shareable token to its session.
func (s *SessionService) GetByShortID(ctx context.Context, shortID string) (*models.Session, error) {
	return s.repomanager.Sessions(s.db).GetByShortID(ctx, shortID)
}

// Hide excludes the session from the creator's own listing. The session
// stays live for everyone else until its deletion schedule, or until the
// garbage collector reclaims it early if it never received a contact.
func (s *SessionService) Hide(ctx context.Context, sessionID, creatorIdentifier string) error {
	return s.repomanager.Sessions(s.db).MarkHidden(ctx, sessionID, creatorIdentifier, s.now())
}

// Status derives the lifecycle phase and countdown text for a viewer.
// The submitted flag is the viewer's browser-local marker and only selects
// the confirmation view inside the open window.
func (s *SessionService) Status(ctx context.Context, shortID, viewerIdentifier string, submitted bool) (*Status, error) {
	session, err := s.GetByShortID(ctx, shortID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &Status{
		Phase:     lifecycle.Evaluate(now, session.ExpiresAt, session.DeletionScheduledAt, submitted),
		Countdown: lifecycle.Countdown(now, session.ExpiresAt, session.DeletionScheduledAt),
		IsCreator: viewerIdentifier != "" && session.CreatorIdentifier == viewerIdentifier,
	}, nil
}

// ProduceDownload encodes the session's contacts and returns the document
// with its stable filename. Anyone may download during the download window;
// the creator may also download early, while submissions are still open.
func (s *SessionService) ProduceDownload(ctx context.Context, shortID, requesterIdentifier string) (*Download, error) {
	session, err := s.GetByShortID(ctx, shortID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	switch lifecycle.Evaluate(now, session.ExpiresAt, session.DeletionScheduledAt, false) {
	case lifecycle.PhaseTerminal:
		// past the deletion schedule nothing is retrievable, even if the
		// sweep has not physically removed the row yet
		return nil, common.ErrorNotFound
	case lifecycle.PhaseSubmissionOpen:
		if session.CreatorIdentifier != requesterIdentifier {
			return nil, common.ErrorWindowClosed
		}
	}

	contacts, err := s.repomanager.Contacts(s.db).ListBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing contacts: %w", err)
	}
	if len(contacts) == 0 {
		return nil, common.ErrorValidation
	}

	cards := make([]vcf.Card, 0, len(contacts))
	for _, c := range contacts {
		cards = append(cards, vcf.Card{Name: c.Name, Phone: c.Phone, Email: c.Email})
	}

	// a failed count update must not lose an otherwise successful download
	_, _ = s.repomanager.Sessions(s.db).IncrementDownloadCount(ctx, session.ID)

	return &Download{
		Filename: vcf.Filename(s.vcfBaseLabel, session.FileSequenceNumber),
		Content:  vcf.Encode(cards),
	}, nil
}
