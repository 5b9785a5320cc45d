package credentials

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

func (r *PostgresRepository) Upsert(ctx context.Context, c *models.Credential) error {
	query := `
		INSERT INTO credentials (id, resource_id, member_id, username, password, tenant_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			resource_id = excluded.resource_id,
			member_id = excluded.member_id,
			username = excluded.username,
			password = excluded.password,
			tenant_id = excluded.tenant_id
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.ResourceID, c.MemberID, c.Username, c.Password, c.OwningTenant)
	if err != nil {
		return fmt.Errorf("failed to upsert credential: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByTenant(ctx context.Context, tenant string) ([]models.Credential, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, resource_id, member_id, username, password, tenant_id FROM credentials
		WHERE tenant_id = $1
	`, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to select credentials: %w", err)
	}
	defer rows.Close()

	var result []models.Credential
	for rows.Next() {
		var c models.Credential
		if err := rows.Scan(&c.ID, &c.ResourceID, &c.MemberID, &c.Username, &c.Password, &c.OwningTenant); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) error {
	return r.del(ctx, `DELETE FROM credentials WHERE id = $1`, id)
}

func (r *PostgresRepository) DeleteByMember(ctx context.Context, memberID string) error {
	return r.del(ctx, `DELETE FROM credentials WHERE member_id = $1`, memberID)
}

func (r *PostgresRepository) DeleteByResource(ctx context.Context, resourceID string) error {
	return r.del(ctx, `DELETE FROM credentials WHERE resource_id = $1`, resourceID)
}

func (r *PostgresRepository) DeleteByTenant(ctx context.Context, tenant string) error {
	return r.del(ctx, `DELETE FROM credentials WHERE tenant_id = $1`, tenant)
}

func (r *PostgresRepository) del(ctx context.Context, query, arg string) error {
	_, err := r.db.ExecContext(ctx, query, arg)
	if err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	return nil
}
