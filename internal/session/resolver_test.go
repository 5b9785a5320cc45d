package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/smartclass/classvault/internal/codec"
	"github.com/smartclass/classvault/internal/common"
	"github.com/smartclass/classvault/internal/localcache"
	"github.com/smartclass/classvault/internal/logging"
	"github.com/smartclass/classvault/internal/models"
)

// fakeRemote implements Remote for resolver tests.
type fakeRemote struct {
	tenants  map[string]bool
	members  map[string]*models.Member // keyed by entrance code
	snapshot *models.Snapshot

	tenantErr error
	fetchErr  error

	LastFetchedTenant string
}

func (f *fakeRemote) TenantExists(ctx context.Context, identity string) (bool, error) {
	if f.tenantErr != nil {
		return false, f.tenantErr
	}
	return f.tenants[identity], nil
}

func (f *fakeRemote) MemberByEntranceCode(ctx context.Context, code string) (*models.Member, error) {
	m, ok := f.members[code]
	if !ok {
		return nil, common.ErrNotFound
	}
	return m, nil
}

func (f *fakeRemote) FetchTenantData(ctx context.Context, identity string) (*models.Snapshot, error) {
	f.LastFetchedTenant = identity
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if f.snapshot == nil {
		return &models.Snapshot{}, nil
	}
	// Hand out copies; the resolver decrypts in place.
	snap := &models.Snapshot{
		Members:     append([]models.Member(nil), f.snapshot.Members...),
		Resources:   append([]models.Resource(nil), f.snapshot.Resources...),
		Credentials: append([]models.Credential(nil), f.snapshot.Credentials...),
	}
	return snap, nil
}

var dbSeq int

func testCache(t *testing.T, c *codec.Codec) *localcache.Store {
	t.Helper()
	dbSeq++
	dsn := fmt.Sprintf("file:resolver%d?mode=memory&cache=shared", dbSeq)
	s, err := localcache.Open(context.Background(), dsn, c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestResolve_EmptyCode(t *testing.T) {
	c := codec.New()
	r := NewResolver(c, testCache(t, c), nil, testLogger())

	_, err := r.Resolve(context.Background(), "   ")
	require.ErrorIs(t, err, common.ErrNoSession)
}

func TestResolve_OwnerFromLocalOnly(t *testing.T) {
	c := codec.New()
	cache := testCache(t, c)
	ctx := context.Background()

	st := models.DefaultState()
	st.TenantCode = "3-1"
	st.Members = append(st.Members, models.Member{ID: "m1", DisplayName: "Kim", EntranceCode: "LION77"})
	require.NoError(t, cache.SaveState(ctx, st, "3-1"))

	r := NewResolver(c, cache, nil, testLogger())
	sess, err := r.Resolve(ctx, "3-1")
	require.NoError(t, err)
	require.Equal(t, models.RoleOwner, sess.Role)
	require.Equal(t, "3-1", sess.TenantCode)
	require.Len(t, sess.State.Members, 1)
}

func TestResolve_OwnerRemoteOverridesLocal(t *testing.T) {
	c := codec.New()
	cache := testCache(t, c)
	ctx := context.Background()

	stale := models.DefaultState()
	stale.TenantCode = "3-1"
	stale.Resources = append(stale.Resources, models.Resource{ID: "old", Name: "Stale"})
	require.NoError(t, cache.SaveState(ctx, stale, "3-1"))

	encPw, err := c.EncryptField("s3cret", "3-1")
	require.NoError(t, err)
	remote := &fakeRemote{
		tenants: map[string]bool{"3-1": true},
		snapshot: &models.Snapshot{
			Members:   []models.Member{{ID: "m1", DisplayName: "Kim", EntranceCode: "LION77", OwningTenant: "3-1"}},
			Resources: []models.Resource{{ID: "r1", Name: "FoxLearn", URL: "https://fox.example", OwningTenant: "3-1"}},
			Credentials: []models.Credential{
				{ID: "c1", ResourceID: "r1", MemberID: "m1", Username: "kim01", Password: encPw, OwningTenant: "3-1"},
			},
		},
	}

	r := NewResolver(c, cache, remote, testLogger())
	sess, err := r.Resolve(ctx, "3-1")
	require.NoError(t, err)
	require.Equal(t, models.RoleOwner, sess.Role)

	// Remote is authoritative: the stale local resource is gone.
	require.Len(t, sess.State.Resources, 1)
	require.Equal(t, "FoxLearn", sess.State.Resources[0].Name)

	// Credential passwords were decrypted with the candidate code.
	require.Equal(t, "s3cret", sess.State.Credentials[0].Password)

	// The cache slot was refreshed with the merged state.
	cached := cache.TryLoadState(ctx, "3-1")
	require.NotNil(t, cached)
	require.Equal(t, sess.State, cached)
}

func TestResolve_OwnerRemoteOnlyNoLocal(t *testing.T) {
	c := codec.New()
	cache := testCache(t, c)
	remote := &fakeRemote{tenants: map[string]bool{"3-1": true}}

	r := NewResolver(c, cache, remote, testLogger())
	sess, err := r.Resolve(context.Background(), "3-1")
	require.NoError(t, err)
	require.Equal(t, models.RoleOwner, sess.Role)
	require.Equal(t, "3-1", sess.State.TenantCode)

	// Cache was seeded for the next offline launch.
	require.NotNil(t, cache.TryLoadState(context.Background(), "3-1"))
}

func TestResolve_OwnerSurvivesRemoteFetchFailure(t *testing.T) {
	c := codec.New()
	cache := testCache(t, c)
	ctx := context.Background()

	st := models.DefaultState()
	st.TenantCode = "3-1"
	require.NoError(t, cache.SaveState(ctx, st, "3-1"))

	remote := &fakeRemote{tenants: map[string]bool{"3-1": true}, fetchErr: errors.New("down")}
	r := NewResolver(c, cache, remote, testLogger())

	sess, err := r.Resolve(ctx, "3-1")
	require.NoError(t, err)
	require.Equal(t, models.RoleOwner, sess.Role)
}

func TestResolve_MemberPath(t *testing.T) {
	c := codec.New()
	cache := testCache(t, c)
	ctx := context.Background()

	encPw, err := c.EncryptField("s3cret", "3-1")
	require.NoError(t, err)
	kim := &models.Member{ID: "m1", DisplayName: "Kim", EntranceCode: "LION77", OwningTenant: "3-1"}
	remote := &fakeRemote{
		members: map[string]*models.Member{"LION77": kim},
		snapshot: &models.Snapshot{
			Members:     []models.Member{*kim},
			Credentials: []models.Credential{{ID: "c1", MemberID: "m1", Password: encPw, OwningTenant: "3-1"}},
		},
	}

	r := NewResolver(c, cache, remote, testLogger())

	// Lowercase input: the member lookup is case-insensitive.
	sess, err := r.Resolve(ctx, "lion77")
	require.NoError(t, err)
	require.Equal(t, models.RoleMember, sess.Role)
	require.Equal(t, "3-1", sess.TenantCode)
	require.Equal(t, "m1", sess.Member.ID)
	require.Equal(t, "3-1", remote.LastFetchedTenant)

	// Passwords decrypted with the owner's code, not the member's.
	require.Equal(t, "s3cret", sess.State.Credentials[0].Password)

	// The auto-login marker was persisted, uppercased.
	marker, err := cache.RememberedMemberCode(ctx)
	require.NoError(t, err)
	require.Equal(t, "LION77", marker)

	// The member path does not touch the cache slot.
	require.Nil(t, cache.TryLoadState(ctx, "3-1"))
}

func TestResolve_NoMatch(t *testing.T) {
	c := codec.New()
	r := NewResolver(c, testCache(t, c), &fakeRemote{}, testLogger())

	_, err := r.Resolve(context.Background(), "nobody")
	require.ErrorIs(t, err, common.ErrNoSession)
}

func TestResolve_MemberNeedsRemote(t *testing.T) {
	c := codec.New()
	r := NewResolver(c, testCache(t, c), nil, testLogger())

	_, err := r.Resolve(context.Background(), "LION77")
	require.ErrorIs(t, err, common.ErrRemoteRequired)
}

func TestAutoLogin(t *testing.T) {
	c := codec.New()
	cache := testCache(t, c)
	ctx := context.Background()

	kim := &models.Member{ID: "m1", DisplayName: "Kim", EntranceCode: "LION77", OwningTenant: "3-1"}
	remote := &fakeRemote{members: map[string]*models.Member{"LION77": kim}}
	r := NewResolver(c, cache, remote, testLogger())

	// No marker yet.
	_, err := r.AutoLogin(ctx)
	require.ErrorIs(t, err, common.ErrNoSession)

	require.NoError(t, cache.RememberMemberCode(ctx, "LION77"))
	sess, err := r.AutoLogin(ctx)
	require.NoError(t, err)
	require.Equal(t, models.RoleMember, sess.Role)

	// A failed auto-login (member deleted meanwhile) produces no session
	// but keeps the marker; only explicit logout clears it.
	remote.members = map[string]*models.Member{}
	_, err = r.AutoLogin(ctx)
	require.ErrorIs(t, err, common.ErrNoSession)
	marker, err := cache.RememberedMemberCode(ctx)
	require.NoError(t, err)
	require.Equal(t, "LION77", marker)
}

func TestLogout_ClearsMarkerOnly(t *testing.T) {
	c := codec.New()
	cache := testCache(t, c)
	ctx := context.Background()

	st := models.DefaultState()
	st.TenantCode = "3-1"
	require.NoError(t, cache.SaveState(ctx, st, "3-1"))
	require.NoError(t, cache.RememberMemberCode(ctx, "LION77"))

	r := NewResolver(c, cache, nil, testLogger())
	require.NoError(t, r.Logout(ctx))

	marker, err := cache.RememberedMemberCode(ctx)
	require.NoError(t, err)
	require.Empty(t, marker)

	// The cache slot survives logout.
	require.NotNil(t, cache.TryLoadState(ctx, "3-1"))
}

func TestResolve_TenantLookupErrorFallsBackToLocal(t *testing.T) {
	c := codec.New()
	cache := testCache(t, c)
	ctx := context.Background()

	st := models.DefaultState()
	st.TenantCode = "3-1"
	require.NoError(t, cache.SaveState(ctx, st, "3-1"))

	remote := &fakeRemote{tenantErr: errors.New("down"), fetchErr: errors.New("down")}
	r := NewResolver(c, cache, remote, testLogger())

	sess, err := r.Resolve(ctx, "3-1")
	require.NoError(t, err)
	require.Equal(t, models.RoleOwner, sess.Role)
}
