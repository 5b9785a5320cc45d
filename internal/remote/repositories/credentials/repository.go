// Package credentials stores the tenant-scoped login rows. The password
// column always holds field-encrypted ciphertext: the remote store is
// shared infrastructure with weaker at-rest guarantees than the local
// blob, so plaintext never reaches it.
package credentials

import (
	"context"

	"github.com/smartclass/classvault/internal/models"
)

type Repository interface {
	Upsert(ctx context.Context, c *models.Credential) error
	ListByTenant(ctx context.Context, tenant string) ([]models.Credential, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByMember(ctx context.Context, memberID string) error
	DeleteByResource(ctx context.Context, resourceID string) error
	DeleteByTenant(ctx context.Context, tenant string) error
}
