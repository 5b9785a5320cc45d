package members

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/smartclass/classvault/internal/common"
	"github.com/smartclass/classvault/internal/dbx"
	"github.com/smartclass/classvault/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert inserts or replaces a member row by id.
func (r *PostgresRepository) Upsert(ctx context.Context, m *models.Member) error {
	query := `
		INSERT INTO members (id, display_name, entrance_code, tenant_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			display_name = excluded.display_name,
			entrance_code = excluded.entrance_code,
			tenant_id = excluded.tenant_id
	`
	_, err := r.db.ExecContext(ctx, query, m.ID, m.DisplayName, m.EntranceCode, m.OwningTenant)
	if err != nil {
		return fmt.Errorf("failed to upsert member: %w", err)
	}
	return nil
}

// GetByEntranceCode returns the member holding the (already uppercased)
// code, or common.ErrNotFound.
func (r *PostgresRepository) GetByEntranceCode(ctx context.Context, code string) (*models.Member, error) {
	query := `
		SELECT id, display_name, entrance_code, tenant_id FROM members
		WHERE entrance_code = $1
	`
	m := &models.Member{}
	err := r.db.QueryRowContext(ctx, query, code).
		Scan(&m.ID, &m.DisplayName, &m.EntranceCode, &m.OwningTenant)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

// ListByEntranceCode returns every member holding the code. Normally zero
// or one row; more than one means the uniqueness invariant was violated
// while offline, and the guard needs to see all holders.
func (r *PostgresRepository) ListByEntranceCode(ctx context.Context, code string) ([]models.Member, error) {
	return r.list(ctx, `
		SELECT id, display_name, entrance_code, tenant_id FROM members
		WHERE entrance_code = $1
	`, code)
}

func (r *PostgresRepository) ListByTenant(ctx context.Context, tenant string) ([]models.Member, error) {
	return r.list(ctx, `
		SELECT id, display_name, entrance_code, tenant_id FROM members
		WHERE tenant_id = $1
	`, tenant)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg string) ([]models.Member, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to select members: %w", err)
	}
	defer rows.Close()

	var result []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.DisplayName, &m.EntranceCode, &m.OwningTenant); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByTenant(ctx context.Context, tenant string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE tenant_id = $1`, tenant)
	if err != nil {
		return fmt.Errorf("failed to delete members: %w", err)
	}
	return nil
}
