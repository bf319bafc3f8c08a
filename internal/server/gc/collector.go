// Package gc implements the background sweep that permanently removes
// sessions whose retention window elapsed, and reclaims hidden sessions that
// never collected anything.
package gc

import (
	"context"
	"database/sql"
	"time"

	"github.com/contactgain/contactgain/internal/dbx"
	"github.com/contactgain/contactgain/internal/logging"
	"github.com/contactgain/contactgain/internal/server/repositories/repomanager"
)

// Collector runs both sweeps on a fixed interval, independent of any
// per-session timer. It never reports an error to its caller; a failed run
// is logged and the next scheduled run proceeds.
type Collector struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	interval    time.Duration
	logger      logging.Logger

	now func() time.Time
}

func NewCollector(db *sql.DB, m repomanager.RepositoryManager, interval time.Duration, l logging.Logger) *Collector {
	return &Collector{
		db:          db,
		repomanager: m,
		interval:    interval,
		logger:      l.With("module", "gc"),
		now:         time.Now,
	}
}

// Run sweeps once immediately, then on every interval tick until ctx is
// canceled.
func (c *Collector) Run(ctx context.Context) {
	c.logger.Info(ctx, "Starting garbage collector", "interval", c.interval.String())

	c.Sweep(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info(ctx, "Stopping garbage collector")
			return
		case <-ticker.C:
			c.Sweep(ctx)
		}
	}
}

// Sweep runs the hard-expiry sweep and the early-reclaim sweep. The two are
// independent: a failure in one is logged and must not keep the other from
// running. Both are idempotent and safe against concurrent traffic.
func (c *Collector) Sweep(ctx context.Context) {
	if n, err := c.sweepOverdue(ctx); err != nil {
		c.logger.Error(ctx, "Hard expiry sweep failed", "error", err.Error())
	} else if n > 0 {
		c.logger.Info(ctx, "Hard expiry sweep removed sessions", "count", n)
	}

	if n, err := c.sweepHiddenEmpty(ctx); err != nil {
		c.logger.Error(ctx, "Early reclaim sweep failed", "error", err.Error())
	} else if n > 0 {
		c.logger.Info(ctx, "Early reclaim sweep removed sessions", "count", n)
	}
}

// sweepOverdue hard-deletes sessions past deletionScheduledAt together with
// their contacts.
func (c *Collector) sweepOverdue(ctx context.Context) (int, error) {
	ids, err := c.repomanager.Sessions(c.db).ListOverdue(ctx, c.now())
	if err != nil {
		return 0, err
	}
	return c.deleteSessions(ctx, ids)
}

// sweepHiddenEmpty reclaims creator-hidden, expired sessions with zero
// contacts so a hidden session nobody used does not sit out the full
// retention window.
func (c *Collector) sweepHiddenEmpty(ctx context.Context) (int, error) {
	ids, err := c.repomanager.Sessions(c.db).ListHiddenEmpty(ctx, c.now())
	if err != nil {
		return 0, err
	}
	return c.deleteSessions(ctx, ids)
}

// deleteSessions removes contacts before their parent sessions inside one
// transaction; the store has no ON DELETE CASCADE, so child rows must go
// first.
func (c *Collector) deleteSessions(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	err := dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := c.repomanager.Contacts(tx).DeleteForSessions(ctx, ids); err != nil {
			return err
		}
		return c.repomanager.Sessions(tx).DeleteByIDs(ctx, ids)
	})
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
