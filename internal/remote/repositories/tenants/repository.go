// Package tenants stores the global tenant-identity table. It is the one
// table that is not tenant-scoped: identities are the scope.
package tenants

import "context"

type Repository interface {
	Exists(ctx context.Context, identity string) (bool, error)
	Create(ctx context.Context, identity string) error
	Delete(ctx context.Context, identity string) error
}
