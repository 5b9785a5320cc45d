// Package remote is the tenant-scoped relational backend: a Postgres
// database holding the tenant-identity table plus members, resources and
// credentials rows for every tenant.
//
// The handle has an explicit lifecycle: unconfigured (no descriptor, the
// application runs local-only and Open is never called), configured (a
// descriptor exists) and active (Open succeeded). A nil *Store is never
// passed around implicitly; callers that can run without a remote store
// accept a nil-able collaborator interface instead.
//
// After Open, individual calls carry no retry or cancellation layer of
// their own: a call runs to completion or failure on whatever deadline
// its context carries.
package remote

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"

	"github.com/smartclass/classvault/internal/config"
	"github.com/smartclass/classvault/internal/dbx"
	"github.com/smartclass/classvault/internal/logging"
	"github.com/smartclass/classvault/internal/models"
	"github.com/smartclass/classvault/internal/remote/migrations"
	"github.com/smartclass/classvault/internal/remote/repositories/credentials"
	"github.com/smartclass/classvault/internal/remote/repositories/members"
	"github.com/smartclass/classvault/internal/remote/repositories/resources"
	"github.com/smartclass/classvault/internal/remote/repositories/tenants"
)

// Store is the active remote-store handle.
type Store struct {
	db  *sql.DB
	log logging.Logger
}

// Open connects to the remote store described by d, waits for it to
// answer a ping (fibonacci backoff, a few attempts, since launch-time
// networks are flaky), and runs pending migrations.
func Open(ctx context.Context, d config.Descriptor, log logging.Logger) (*Store, error) {
	db, err := sql.Open("pgx", d.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening remote store: %w", err)
	}

	backoff := retry.WithMaxRetries(4, retry.NewFibonacci(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("remote store unreachable: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating remote store: %w", err)
	}

	log.Info(ctx, "remote store ready", "endpoint", d.Endpoint)
	return &Store{db: db, log: log}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) tenants(db dbx.DBTX) tenants.Repository {
	return tenants.NewPostgresRepository(db)
}

func (s *Store) members(db dbx.DBTX) members.Repository {
	return members.NewPostgresRepository(db)
}

func (s *Store) resources(db dbx.DBTX) resources.Repository {
	return resources.NewPostgresRepository(db)
}

func (s *Store) credentials(db dbx.DBTX) credentials.Repository {
	return credentials.NewPostgresRepository(db)
}

// TenantExists reports an exact match in the tenant-identity table.
func (s *Store) TenantExists(ctx context.Context, identity string) (bool, error) {
	return s.tenants(s.db).Exists(ctx, identity)
}

// RegisterTenant inserts a new tenant identity. Uniqueness is checked by
// the guard before this call; the primary key backstops the race window.
func (s *Store) RegisterTenant(ctx context.Context, identity string) error {
	return s.tenants(s.db).Create(ctx, identity)
}

// DeleteTenant removes a tenant identity row.
func (s *Store) DeleteTenant(ctx context.Context, identity string) error {
	return s.tenants(s.db).Delete(ctx, identity)
}

// RotateTenantIdentity moves a tenant to a new identity and re-tags all
// of its rows in one transaction, so the next owner login under the new
// code finds everything.
func (s *Store) RotateTenantIdentity(ctx context.Context, oldIdentity, newIdentity string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.tenants(tx).Delete(ctx, oldIdentity); err != nil {
			return err
		}
		if err := s.tenants(tx).Create(ctx, newIdentity); err != nil {
			return err
		}
		for _, table := range []string{"members", "resources", "credentials"} {
			query := fmt.Sprintf(`UPDATE %s SET tenant_id = $1 WHERE tenant_id = $2`, table)
			if _, err := tx.ExecContext(ctx, query, newIdentity, oldIdentity); err != nil {
				return fmt.Errorf("re-tagging %s: %w", table, err)
			}
		}
		return nil
	})
}

// MemberByEntranceCode looks up the single member holding the uppercased
// code. Returns common.ErrNotFound when nobody does.
func (s *Store) MemberByEntranceCode(ctx context.Context, code string) (*models.Member, error) {
	return s.members(s.db).GetByEntranceCode(ctx, code)
}

// MembersByEntranceCode returns every holder of the code, for the
// uniqueness guard.
func (s *Store) MembersByEntranceCode(ctx context.Context, code string) ([]models.Member, error) {
	return s.members(s.db).ListByEntranceCode(ctx, code)
}

// FetchTenantData pulls all three record kinds for one tenant identity.
// Credential passwords come back field-encrypted; decryption is the
// caller's business because only the caller knows the code.
func (s *Store) FetchTenantData(ctx context.Context, identity string) (*models.Snapshot, error) {
	ms, err := s.members(s.db).ListByTenant(ctx, identity)
	if err != nil {
		return nil, err
	}
	rs, err := s.resources(s.db).ListByTenant(ctx, identity)
	if err != nil {
		return nil, err
	}
	cs, err := s.credentials(s.db).ListByTenant(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &models.Snapshot{Members: ms, Resources: rs, Credentials: cs}, nil
}

func (s *Store) UpsertMember(ctx context.Context, m models.Member) error {
	return s.members(s.db).Upsert(ctx, &m)
}

func (s *Store) DeleteMember(ctx context.Context, id string) error {
	return s.members(s.db).DeleteByID(ctx, id)
}

func (s *Store) DeleteMembersByTenant(ctx context.Context, tenant string) error {
	return s.members(s.db).DeleteByTenant(ctx, tenant)
}

func (s *Store) UpsertResource(ctx context.Context, res models.Resource) error {
	return s.resources(s.db).Upsert(ctx, &res)
}

func (s *Store) DeleteResource(ctx context.Context, id string) error {
	return s.resources(s.db).DeleteByID(ctx, id)
}

func (s *Store) DeleteResourcesByTenant(ctx context.Context, tenant string) error {
	return s.resources(s.db).DeleteByTenant(ctx, tenant)
}

func (s *Store) UpsertCredential(ctx context.Context, c models.Credential) error {
	return s.credentials(s.db).Upsert(ctx, &c)
}

func (s *Store) DeleteCredential(ctx context.Context, id string) error {
	return s.credentials(s.db).DeleteByID(ctx, id)
}

func (s *Store) DeleteCredentialsByMember(ctx context.Context, memberID string) error {
	return s.credentials(s.db).DeleteByMember(ctx, memberID)
}

func (s *Store) DeleteCredentialsByResource(ctx context.Context, resourceID string) error {
	return s.credentials(s.db).DeleteByResource(ctx, resourceID)
}

func (s *Store) DeleteCredentialsByTenant(ctx context.Context, tenant string) error {
	return s.credentials(s.db).DeleteByTenant(ctx, tenant)
}
