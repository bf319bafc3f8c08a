// Package sessions provides the PostgreSQL-backed repository for session
// records.
package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/contactgain/contactgain/internal/common"
	"github.com/contactgain/contactgain/internal/dbx"
	"github.com/contactgain/contactgain/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresRepository implements session storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const sessionColumns = `id, short_id, group_name, user_identifier, created_at, duration_minutes,
		 expires_at, deletion_scheduled_at, user_deleted_at, download_count, vcf_download_identifier`

func (r *PostgresRepository) Insert(ctx context.Context, s *models.Session) error {
	query := `
		INSERT INTO sessions (id, short_id, group_name, user_identifier, created_at, duration_minutes,
			expires_at, deletion_scheduled_at, user_deleted_at, download_count, vcf_download_identifier)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULL, 0, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ShortID, s.GroupName, s.CreatorIdentifier, s.CreatedAt, s.DurationMinutes,
		s.ExpiresAt, s.DeletionScheduledAt, s.FileSequenceNumber)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrorConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	return r.scanSession(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByShortID(ctx context.Context, shortID string) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE short_id = $1`
	return r.scanSession(r.db.QueryRowContext(ctx, query, shortID))
}

func (r *PostgresRepository) ListByCreator(ctx context.Context, creatorIdentifier string) ([]*models.Session, error) {
	query := `
		SELECT s.id, s.short_id, s.group_name, s.user_identifier, s.created_at, s.duration_minutes,
			s.expires_at, s.deletion_scheduled_at, s.user_deleted_at, s.download_count,
			s.vcf_download_identifier, count(c.id)
		FROM sessions s
		LEFT JOIN contacts c ON c.session_id = s.id
		WHERE s.user_identifier = $1 AND s.user_deleted_at IS NULL
		GROUP BY s.id
		ORDER BY s.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, creatorIdentifier)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Session
	for rows.Next() {
		var item models.Session
		var hiddenAt sql.NullTime
		if err := rows.Scan(
			&item.ID, &item.ShortID, &item.GroupName, &item.CreatorIdentifier, &item.CreatedAt,
			&item.DurationMinutes, &item.ExpiresAt, &item.DeletionScheduledAt, &hiddenAt,
			&item.DownloadCount, &item.FileSequenceNumber, &item.ContactCount,
		); err != nil {
			return nil, err
		}
		if hiddenAt.Valid {
			item.HiddenByCreatorAt = &hiddenAt.Time
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkHidden excludes the session from the creator's listing without
// touching its deletion schedule. A mismatched creator behaves like an
// absent row.
func (r *PostgresRepository) MarkHidden(ctx context.Context, sessionID, creatorIdentifier string, at time.Time) error {
	query := `
		UPDATE sessions SET user_deleted_at = $1
		WHERE id = $2 AND user_identifier = $3 AND user_deleted_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, at, sessionID, creatorIdentifier)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) IncrementDownloadCount(ctx context.Context, sessionID string) (int64, error) {
	query := `
		UPDATE sessions SET download_count = download_count + 1
		WHERE id = $1
		RETURNING download_count
	`
	var count int64
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) ListOverdue(ctx context.Context, now time.Time) ([]string, error) {
	query := `SELECT id FROM sessions WHERE deletion_scheduled_at < $1`
	return r.listIDs(ctx, query, now)
}

func (r *PostgresRepository) ListHiddenEmpty(ctx context.Context, now time.Time) ([]string, error) {
	query := `
		SELECT s.id FROM sessions s
		WHERE s.user_deleted_at IS NOT NULL AND s.expires_at < $1
			AND NOT EXISTS (SELECT 1 FROM contacts c WHERE c.session_id = s.id)
	`
	return r.listIDs(ctx, query, now)
}

func (r *PostgresRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	query := `DELETE FROM sessions WHERE id = $1`
	for _, id := range ids {
		if _, err := r.db.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) listIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) scanSession(row *sql.Row) (*models.Session, error) {
	s := &models.Session{}
	var hiddenAt sql.NullTime
	err := row.Scan(
		&s.ID, &s.ShortID, &s.GroupName, &s.CreatorIdentifier, &s.CreatedAt, &s.DurationMinutes,
		&s.ExpiresAt, &s.DeletionScheduledAt, &hiddenAt, &s.DownloadCount, &s.FileSequenceNumber,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if hiddenAt.Valid {
		s.HiddenByCreatorAt = &hiddenAt.Time
	}
	return s, nil
}
