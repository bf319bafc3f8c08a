// Package counters provides the PostgreSQL-backed repository for named
// application counters.
package counters

import (
	"context"
	"fmt"

	"github.com/contactgain/contactgain/internal/dbx"
)

// PostgresRepository implements counter storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// IncrementAndRead performs the read-modify-write server-side in one
// statement, so concurrent session creations cannot race on the value.
func (r *PostgresRepository) IncrementAndRead(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO app_counters (name, value) VALUES ($1, 1)
		ON CONFLICT (name)
		DO UPDATE SET value = app_counters.value + 1
		RETURNING value
	`
	var value int64
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&value); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return value, nil
}
