// Package reconcile keeps the three copies of a tenant's state (memory,
// the local encrypted cache, and the remote store) in agreement.
//
// The contract: the local cache mirrors memory ALWAYS (every mutation
// re-encrypts and overwrites the slot); the remote store mirrors memory
// per-operation, with each higher-level operation issuing its own remote
// writes because the write set differs per operation (deleting a
// resource cascades to its credentials remotely before local state drops
// them). The two stores are not transactional with each other: a remote
// failure after a local update leaves them diverged until the next full
// owner login resyncs from remote as the source of truth.
package reconcile

import (
	"context"

	"github.com/smartclass/classvault/internal/localcache"
	"github.com/smartclass/classvault/internal/logging"
	"github.com/smartclass/classvault/internal/models"
)

// WriteOrder says which store an operation touches first.
type WriteOrder int

const (
	// RemoteFirst: the remote write is attempted before local state
	// changes, so a remote failure aborts the operation cleanly.
	RemoteFirst WriteOrder = iota
	// LocalFirst: local state changes first, the remote write follows
	// best-effort.
	LocalFirst
)

// Policy codifies the consistency model per entity kind so it is a
// stated decision rather than an accident of call order.
type Policy struct {
	MemberWrites     WriteOrder
	ResourceWrites   WriteOrder
	CredentialWrites WriteOrder

	// RemoteIsAuthority: on the next full owner resync, remote data
	// overrides the local cache. Always true for owner sessions.
	RemoteIsAuthority bool
}

// DefaultPolicy matches the behavior the rest of the system assumes:
// remote writes go first for every kind (cascading deletes must land
// remotely before local state forgets the ids they hang off), and remote
// is authoritative on resync.
func DefaultPolicy() Policy {
	return Policy{
		MemberWrites:      RemoteFirst,
		ResourceWrites:    RemoteFirst,
		CredentialWrites:  RemoteFirst,
		RemoteIsAuthority: true,
	}
}

// Reconciler applies in-memory mutations and keeps the local cache
// continuously consistent with memory.
type Reconciler struct {
	cache *localcache.Store
	log   logging.Logger
}

func NewReconciler(cache *localcache.Store, log logging.Logger) *Reconciler {
	return &Reconciler{cache: cache, log: log}
}

// ApplyMutation computes the next state from a pure mutator and, when an
// owner session is active, immediately re-encrypts and persists it to the
// cache slot under the active tenant code. This runs on every
// state-shape mutation, not just explicit saves.
//
// Member sessions mutate memory only: a member holds no passphrase, so
// there is nothing to encrypt the slot under.
func (r *Reconciler) ApplyMutation(ctx context.Context, sess *models.Session, mutate func(models.State) models.State) error {
	next := mutate(*sess.State)
	sess.State = &next

	if sess.Role != models.RoleOwner {
		return nil
	}
	return r.cache.SaveState(ctx, &next, sess.TenantCode)
}
