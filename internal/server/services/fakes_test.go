package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/contactgain/contactgain/internal/common"
	"github.com/contactgain/contactgain/internal/dbx"
	"github.com/contactgain/contactgain/internal/server/models"
	contactsrepo "github.com/contactgain/contactgain/internal/server/repositories/contacts"
	countersrepo "github.com/contactgain/contactgain/internal/server/repositories/counters"
	sessionsrepo "github.com/contactgain/contactgain/internal/server/repositories/sessions"
)

// --- fakes ---

type fakeSessionsRepo struct {
	insertErrs []error // consumed one per Insert call; nil entry = success
	inserted   []*models.Session

	byID      map[string]*models.Session
	byShortID map[string]*models.Session

	listOut []*models.Session
	listErr error

	hiddenCalls  []string
	markHidErr   error
	incremented  []string
	incrementErr error
}

func newFakeSessionsRepo() *fakeSessionsRepo {
	return &fakeSessionsRepo{
		byID:      map[string]*models.Session{},
		byShortID: map[string]*models.Session{},
	}
}

func (f *fakeSessionsRepo) Insert(ctx context.Context, s *models.Session) error {
	if len(f.insertErrs) > 0 {
		err := f.insertErrs[0]
		f.insertErrs = f.insertErrs[1:]
		if err != nil {
			return err
		}
	}
	copied := *s
	f.inserted = append(f.inserted, &copied)
	f.byID[s.ID] = &copied
	f.byShortID[s.ShortID] = &copied
	return nil
}

func (f *fakeSessionsRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeSessionsRepo) GetByShortID(ctx context.Context, shortID string) (*models.Session, error) {
	if s, ok := f.byShortID[shortID]; ok {
		return s, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeSessionsRepo) ListByCreator(ctx context.Context, creator string) ([]*models.Session, error) {
	return f.listOut, f.listErr
}

func (f *fakeSessionsRepo) MarkHidden(ctx context.Context, sessionID, creator string, at time.Time) error {
	if f.markHidErr != nil {
		return f.markHidErr
	}
	f.hiddenCalls = append(f.hiddenCalls, sessionID)
	return nil
}

func (f *fakeSessionsRepo) IncrementDownloadCount(ctx context.Context, sessionID string) (int64, error) {
	if f.incrementErr != nil {
		return 0, f.incrementErr
	}
	f.incremented = append(f.incremented, sessionID)
	return int64(len(f.incremented)), nil
}

func (f *fakeSessionsRepo) ListOverdue(ctx context.Context, now time.Time) ([]string, error) {
	return nil, nil
}

func (f *fakeSessionsRepo) ListHiddenEmpty(ctx context.Context, now time.Time) ([]string, error) {
	return nil, nil
}

func (f *fakeSessionsRepo) DeleteByIDs(ctx context.Context, ids []string) error { return nil }

// fakeContactsRepo mimics the store's case-insensitive per-session
// uniqueness so duplicate submissions fail at insert time, exactly like the
// unique index would.
type fakeContactsRepo struct {
	insertErr error
	stored    []*models.Contact
	listErr   error
}

func (f *fakeContactsRepo) Insert(ctx context.Context, c *models.Contact) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, existing := range f.stored {
		if existing.SessionID == c.SessionID && strings.EqualFold(existing.Name, c.Name) {
			return common.ErrorConflict
		}
	}
	copied := *c
	f.stored = append(f.stored, &copied)
	return nil
}

func (f *fakeContactsRepo) ListBySession(ctx context.Context, sessionID string) ([]*models.Contact, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.Contact
	for _, c := range f.stored {
		if c.SessionID == sessionID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContactsRepo) DeleteForSessions(ctx context.Context, ids []string) error { return nil }

type fakeCountersRepo struct {
	value int64
	err   error
	calls int
}

func (f *fakeCountersRepo) IncrementAndRead(ctx context.Context, name string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.calls++
	f.value++
	return f.value, nil
}

type fakeRepoManager struct {
	s   *fakeSessionsRepo
	c   *fakeContactsRepo
	cnt *fakeCountersRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		s:   newFakeSessionsRepo(),
		c:   &fakeContactsRepo{},
		cnt: &fakeCountersRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error      { return nil }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessionsrepo.Repository      { return m.s }
func (m *fakeRepoManager) Contacts(db dbx.DBTX) contactsrepo.Repository     { return m.c }
func (m *fakeRepoManager) Counters(db dbx.DBTX) countersrepo.Repository     { return m.cnt }
