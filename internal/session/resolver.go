// Package session implements the login resolution state machine: given a
// candidate code it decides whether the code identifies a tenant owner or
// a member, pulls and decrypts the tenant's data, and produces a merged,
// role-tagged session.
//
// Resolution order, short-circuiting on first success:
//
//  1. exact tenant-identity match in the remote store
//  2. local blob opens under the candidate
//  3. either hit → owner session (remote data, when available, overrides
//     local; the cache slot is refreshed under the candidate either way)
//  4. uppercased entrance-code match in the member table → member session
//     (credentials decrypt with the OWNER's code; the member's code is
//     remembered for silent re-entry)
//  5. nothing matched → no session, no side effects
//
// Wrong-code decryption failures are routine here, which is why the codec
// reports them as values rather than errors.
package session

import (
	"context"
	"errors"
	"strings"

	"github.com/smartclass/classvault/internal/codec"
	"github.com/smartclass/classvault/internal/common"
	"github.com/smartclass/classvault/internal/localcache"
	"github.com/smartclass/classvault/internal/logging"
	"github.com/smartclass/classvault/internal/models"
)

// Remote is the slice of the remote store the resolver reads. A nil
// Remote means the application runs local-only.
type Remote interface {
	TenantExists(ctx context.Context, identity string) (bool, error)
	MemberByEntranceCode(ctx context.Context, code string) (*models.Member, error)
	FetchTenantData(ctx context.Context, identity string) (*models.Snapshot, error)
}

// Resolver runs the login state machine.
type Resolver struct {
	codec  *codec.Codec
	cache  *localcache.Store
	remote Remote
	log    logging.Logger
}

func NewResolver(c *codec.Codec, cache *localcache.Store, remote Remote, log logging.Logger) *Resolver {
	return &Resolver{codec: c, cache: cache, remote: remote, log: log}
}

// Resolve turns a candidate code into a session. It returns
// common.ErrNoSession when the code matches nothing, and
// common.ErrRemoteRequired when only the member path could have matched
// but no remote store is configured.
func (r *Resolver) Resolve(ctx context.Context, candidate string) (*models.Session, error) {
	code := strings.TrimSpace(candidate)
	if code == "" {
		return nil, common.ErrNoSession
	}

	tenantExists := false
	if r.remote != nil {
		exists, err := r.remote.TenantExists(ctx, code)
		if err != nil {
			r.log.Warn(ctx, "tenant lookup failed, relying on local state", "error", err)
		} else {
			tenantExists = exists
		}
	}

	localState := r.cache.TryLoadState(ctx, code)

	if tenantExists || localState != nil {
		return r.resolveOwner(ctx, code, localState)
	}

	if r.remote == nil {
		return nil, common.ErrRemoteRequired
	}

	return r.resolveMember(ctx, strings.ToUpper(code))
}

// resolveOwner builds an owner session: remote data (when reachable)
// shallow-overrides whatever local or default state exists, the tenant
// code is forced to the candidate, and the cache slot is re-encrypted and
// refreshed even when it was the source.
func (r *Resolver) resolveOwner(ctx context.Context, code string, localState *models.State) (*models.Session, error) {
	state := localState
	if state == nil {
		state = models.DefaultState()
	}
	state.TenantCode = code

	if r.remote != nil {
		snap, err := r.remote.FetchTenantData(ctx, code)
		if err != nil {
			r.log.Warn(ctx, "remote fetch failed, serving local state", "error", err)
		} else {
			r.decryptCredentials(snap, code)
			state.Members = snap.Members
			state.Resources = snap.Resources
			state.Credentials = snap.Credentials
		}
	}

	if err := r.cache.SaveState(ctx, state, code); err != nil {
		return nil, err
	}

	return &models.Session{Role: models.RoleOwner, TenantCode: code, State: state}, nil
}

// resolveMember builds a member session for an (already uppercased)
// entrance code. Credentials decrypt with the owning tenant's identity:
// members never see or use a passphrase of their own.
func (r *Resolver) resolveMember(ctx context.Context, code string) (*models.Session, error) {
	member, err := r.remote.MemberByEntranceCode(ctx, code)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNoSession
		}
		return nil, err
	}

	tenant := member.OwningTenant
	snap, err := r.remote.FetchTenantData(ctx, tenant)
	if err != nil {
		return nil, err
	}
	r.decryptCredentials(snap, tenant)

	state := models.DefaultState()
	state.TenantCode = tenant
	state.Members = snap.Members
	state.Resources = snap.Resources
	state.Credentials = snap.Credentials

	if err := r.cache.RememberMemberCode(ctx, code); err != nil {
		r.log.Warn(ctx, "could not persist auto-login marker", "error", err)
	}

	return &models.Session{Role: models.RoleMember, TenantCode: tenant, Member: member, State: state}, nil
}

// AutoLogin attempts silent member re-entry with the remembered entrance
// code. A missing marker or any resolution failure yields no session;
// the marker itself is only cleared on explicit logout.
func (r *Resolver) AutoLogin(ctx context.Context) (*models.Session, error) {
	code, err := r.cache.RememberedMemberCode(ctx)
	if err != nil || code == "" {
		return nil, common.ErrNoSession
	}
	if r.remote == nil {
		return nil, common.ErrRemoteRequired
	}
	return r.resolveMember(ctx, code)
}

// Logout clears the remembered member marker. It touches neither the
// local cache slot nor the remote store.
func (r *Resolver) Logout(ctx context.Context) error {
	return r.cache.ForgetMemberCode(ctx)
}

func (r *Resolver) decryptCredentials(snap *models.Snapshot, code string) {
	for i := range snap.Credentials {
		snap.Credentials[i].Password = r.codec.DecryptField(snap.Credentials[i].Password, code)
	}
}
