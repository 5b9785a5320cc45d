// Package members stores the tenant-scoped roster rows. Entrance codes
// are uppercased before they reach this layer.
package members

import (
	"context"

	"github.com/smartclass/classvault/internal/models"
)

type Repository interface {
	Upsert(ctx context.Context, m *models.Member) error
	GetByEntranceCode(ctx context.Context, code string) (*models.Member, error)
	ListByEntranceCode(ctx context.Context, code string) ([]models.Member, error)
	ListByTenant(ctx context.Context, tenant string) ([]models.Member, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByTenant(ctx context.Context, tenant string) error
}
