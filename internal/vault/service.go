// Package vault implements the tenant operations: roster and catalog
// management, credential handling, bulk import, export, registration,
// code rotation and full reset.
//
// Every operation follows the same shape: uniqueness guard where a code
// is minted or changed, remote writes per the reconciliation policy
// (remote first, so cascades land before local state forgets the ids),
// then an in-memory mutation that the reconciler mirrors into the local
// cache. Remote and local are not transactional with each other; the
// next owner login resyncs from remote as the authority.
package vault

import (
	"context"

	"github.com/smartclass/classvault/internal/codec"
	"github.com/smartclass/classvault/internal/common"
	"github.com/smartclass/classvault/internal/config"
	"github.com/smartclass/classvault/internal/guard"
	"github.com/smartclass/classvault/internal/localcache"
	"github.com/smartclass/classvault/internal/logging"
	"github.com/smartclass/classvault/internal/models"
	"github.com/smartclass/classvault/internal/reconcile"
)

// Remote is the write surface of the remote store the service uses. Nil
// means no remote store is configured: operations then apply locally
// only, which is the accepted offline mode.
type Remote interface {
	RegisterTenant(ctx context.Context, identity string) error
	DeleteTenant(ctx context.Context, identity string) error
	RotateTenantIdentity(ctx context.Context, oldIdentity, newIdentity string) error

	UpsertMember(ctx context.Context, m models.Member) error
	DeleteMember(ctx context.Context, id string) error
	DeleteMembersByTenant(ctx context.Context, tenant string) error

	UpsertResource(ctx context.Context, res models.Resource) error
	DeleteResource(ctx context.Context, id string) error
	DeleteResourcesByTenant(ctx context.Context, tenant string) error

	UpsertCredential(ctx context.Context, c models.Credential) error
	DeleteCredential(ctx context.Context, id string) error
	DeleteCredentialsByMember(ctx context.Context, memberID string) error
	DeleteCredentialsByResource(ctx context.Context, resourceID string) error
	DeleteCredentialsByTenant(ctx context.Context, tenant string) error
}

// Service carries out owner and member operations against an active
// session.
type Service struct {
	guard  *guard.Guard
	codec  *codec.Codec
	cache  *localcache.Store
	remote Remote
	rec    *reconcile.Reconciler
	policy reconcile.Policy
	desc   config.Descriptor
	log    logging.Logger
}

func NewService(g *guard.Guard, c *codec.Codec, cache *localcache.Store, remote Remote, rec *reconcile.Reconciler, desc config.Descriptor, log logging.Logger) *Service {
	return &Service{
		guard:  g,
		codec:  c,
		cache:  cache,
		remote: remote,
		rec:    rec,
		policy: reconcile.DefaultPolicy(),
		desc:   desc,
		log:    log,
	}
}

func requireOwner(sess *models.Session) error {
	if !sess.IsOwner() {
		return common.ErrOwnerOnly
	}
	return nil
}

func requireMember(sess *models.Session) error {
	if sess == nil || sess.Role != models.RoleMember || sess.Member == nil {
		return common.ErrMemberOnly
	}
	return nil
}
