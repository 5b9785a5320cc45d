// Package resources stores the tenant-scoped catalog rows.
package resources

import (
	"context"

	"github.com/smartclass/classvault/internal/models"
)

type Repository interface {
	Upsert(ctx context.Context, res *models.Resource) error
	ListByTenant(ctx context.Context, tenant string) ([]models.Resource, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByTenant(ctx context.Context, tenant string) error
}
