// Package contacts provides the PostgreSQL-backed repository for submitted
// contacts.
package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/contactgain/contactgain/internal/common"
	"github.com/contactgain/contactgain/internal/dbx"
	"github.com/contactgain/contactgain/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresRepository implements contact storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, c *models.Contact) error {
	query := `
		INSERT INTO contacts (id, session_id, name, phone, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	var email sql.NullString
	if c.Email != "" {
		email = sql.NullString{String: c.Email, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.SessionID, c.Name, c.Phone, email, c.SubmittedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrorConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListBySession(ctx context.Context, sessionID string) ([]*models.Contact, error) {
	query := `
		SELECT id, session_id, name, phone, email, created_at FROM contacts
		WHERE session_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Contact
	for rows.Next() {
		var item models.Contact
		var email sql.NullString
		if err := rows.Scan(&item.ID, &item.SessionID, &item.Name, &item.Phone, &email, &item.SubmittedAt); err != nil {
			return nil, err
		}
		item.Email = email.String
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) DeleteForSessions(ctx context.Context, sessionIDs []string) error {
	query := `DELETE FROM contacts WHERE session_id = $1`
	for _, id := range sessionIDs {
		if _, err := r.db.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}
