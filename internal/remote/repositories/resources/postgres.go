package resources

import (
	"context"
	"fmt"

	"github.com/smartclass/classvault/internal/dbx"
	"github.com/smartclass/classvault/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, res *models.Resource) error {
	query := `
		INSERT INTO resources (id, name, url, description, tenant_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			url = excluded.url,
			description = excluded.description,
			tenant_id = excluded.tenant_id
	`
	_, err := r.db.ExecContext(ctx, query, res.ID, res.Name, res.URL, res.Description, res.OwningTenant)
	if err != nil {
		return fmt.Errorf("failed to upsert resource: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByTenant(ctx context.Context, tenant string) ([]models.Resource, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, url, description, tenant_id FROM resources
		WHERE tenant_id = $1
	`, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to select resources: %w", err)
	}
	defer rows.Close()

	var result []models.Resource
	for rows.Next() {
		var res models.Resource
		if err := rows.Scan(&res.ID, &res.Name, &res.URL, &res.Description, &res.OwningTenant); err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByTenant(ctx context.Context, tenant string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE tenant_id = $1`, tenant)
	if err != nil {
		return fmt.Errorf("failed to delete resources: %w", err)
	}
	return nil
}
