// Package localcache is the device-local store: one encrypted
// whole-tenant-state blob in a fixed slot, plus a small metadata table
// holding the remembered member entrance code and the persisted
// remote-store connection descriptor.
//
// The slot represents "whatever tenant last successfully authenticated on
// this device". Every save overwrites it; switching tenants on the same
// device replaces it after the new tenant's login succeeds.
package localcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/smartclass/classvault/internal/codec"
	"github.com/smartclass/classvault/internal/config"
	"github.com/smartclass/classvault/internal/localcache/migrations"
	"github.com/smartclass/classvault/internal/models"
)

// Metadata keys.
const (
	keyMemberCode = "member_code"
	keyDescriptor = "remote_descriptor"
)

// Store wraps the local sqlite database and the codec that encrypts the
// state blob.
type Store struct {
	db    *sql.DB
	codec *codec.Codec
}

// Open opens (creating if needed) the local cache database at dsn and
// runs pending migrations.
func Open(ctx context.Context, dsn string, c *codec.Codec) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening local cache: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating local cache: %w", err)
	}
	return &Store{db: db, codec: c}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveState encrypts the full state under code and writes it to the
// single fixed slot, overwriting any previous value.
func (s *Store) SaveState(ctx context.Context, state *models.State, code string) error {
	blob, err := s.codec.EncryptBlob(state, code)
	if err != nil {
		return fmt.Errorf("encrypting state: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO slot (id, blob) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET blob = excluded.blob
	`, blob)
	if err != nil {
		return fmt.Errorf("writing slot: %w", err)
	}
	return nil
}

// TryLoadState reads the slot and attempts decryption with code. Returns
// nil when the slot is absent or the code does not fit; never an error
// for those expected cases.
func (s *Store) TryLoadState(ctx context.Context, code string) *models.State {
	var blob string
	err := s.db.QueryRowContext(ctx, `SELECT blob FROM slot WHERE id = 1`).Scan(&blob)
	if err != nil {
		return nil
	}
	return s.codec.DecryptBlob(blob, code)
}

// ClearState removes the slot entirely. Used only on explicit
// tenant-wide reset.
func (s *Store) ClearState(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM slot WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("clearing slot: %w", err)
	}
	return nil
}

// RememberMemberCode persists the uppercased entrance code used for
// silent member re-entry on next launch.
func (s *Store) RememberMemberCode(ctx context.Context, code string) error {
	return s.setMeta(ctx, keyMemberCode, code)
}

// RememberedMemberCode returns the stored auto-login code, or "" when no
// member session has been remembered.
func (s *Store) RememberedMemberCode(ctx context.Context) (string, error) {
	return s.getMeta(ctx, keyMemberCode)
}

// ForgetMemberCode clears the auto-login marker. Called on explicit
// logout only.
func (s *Store) ForgetMemberCode(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, keyMemberCode)
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", keyMemberCode, err)
	}
	return nil
}

// SaveDescriptor persists the remote-store connection descriptor so later
// launches can connect without the invite link.
func (s *Store) SaveDescriptor(ctx context.Context, d config.Descriptor) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.setMeta(ctx, keyDescriptor, string(raw))
}

// LoadDescriptor returns the persisted descriptor, or the zero value when
// none has been saved.
func (s *Store) LoadDescriptor(ctx context.Context) (config.Descriptor, error) {
	raw, err := s.getMeta(ctx, keyDescriptor)
	if err != nil || raw == "" {
		return config.Descriptor{}, err
	}
	var d config.Descriptor
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return config.Descriptor{}, fmt.Errorf("decoding persisted descriptor: %w", err)
	}
	return d, nil
}

func (s *Store) setMeta(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (s *Store) getMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}
