package tenants

import (
	"context"
	"fmt"

	"github.com/smartclass/classvault/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Exists checks for an exact, case-sensitive identity match.
func (r *PostgresRepository) Exists(ctx context.Context, identity string) (bool, error) {
	var found bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tenants WHERE identity = $1)`, identity).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return found, nil
}

func (r *PostgresRepository) Create(ctx context.Context, identity string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO tenants (identity) VALUES ($1)`, identity)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, identity string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tenants WHERE identity = $1`, identity)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
