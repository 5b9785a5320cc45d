package vault

import (
	"context"
	"fmt"
	"strings"

	"github.com/smartclass/classvault/internal/common"
	"github.com/smartclass/classvault/internal/models"
)

// RegisterTenant claims a new tenant code, creates the remote identity
// row, and returns a fresh owner session seeded with empty state.
func (s *Service) RegisterTenant(ctx context.Context, code string) (*models.Session, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, common.ErrEmptyCode
	}

	if !s.guard.TenantCodeAvailable(ctx, code) {
		return nil, common.ErrCodeTaken
	}

	if s.remote != nil {
		if err := s.remote.RegisterTenant(ctx, code); err != nil {
			// The read-check passed moments ago; losing the race to the
			// primary key surfaces as the same generic message.
			return nil, common.ErrCodeTaken
		}
	}

	state := models.DefaultState()
	state.TenantCode = code
	if err := s.cache.SaveState(ctx, state, code); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "tenant registered", "tenant", code)
	return &models.Session{Role: models.RoleOwner, TenantCode: code, State: state}, nil
}

// ChangeTenantCode rotates the owner's code. The remote identity moves
// in one transaction and every credential is re-encrypted under the new
// code, because the code is also the field-encryption passphrase.
func (s *Service) ChangeTenantCode(ctx context.Context, sess *models.Session, newCode string) error {
	if err := requireOwner(sess); err != nil {
		return err
	}
	newCode = strings.TrimSpace(newCode)
	if newCode == "" {
		return common.ErrEmptyCode
	}

	if !s.guard.TenantCodeAvailable(ctx, newCode) {
		return common.ErrCodeTaken
	}

	oldCode := sess.TenantCode
	if s.remote != nil {
		if err := s.remote.RotateTenantIdentity(ctx, oldCode, newCode); err != nil {
			return fmt.Errorf("rotating tenant identity: %w", err)
		}
		for _, cred := range sess.State.Credentials {
			encrypted, err := s.codec.EncryptField(cred.Password, newCode)
			if err != nil {
				return err
			}
			remoteCopy := cred
			remoteCopy.Password = encrypted
			remoteCopy.OwningTenant = newCode
			if err := s.remote.UpsertCredential(ctx, remoteCopy); err != nil {
				return fmt.Errorf("re-encrypting credential %s: %w", cred.ID, err)
			}
		}
	}

	sess.TenantCode = newCode
	return s.rec.ApplyMutation(ctx, sess, func(st models.State) models.State {
		st.TenantCode = newCode
		return st
	})
}

// FullReset deletes every record the tenant owns, remotely and locally,
// and reseeds default state. The caller is expected to end the session
// afterwards.
func (s *Service) FullReset(ctx context.Context, sess *models.Session) error {
	if err := requireOwner(sess); err != nil {
		return err
	}

	tenant := sess.TenantCode
	if s.remote != nil {
		if err := s.remote.DeleteCredentialsByTenant(ctx, tenant); err != nil {
			return err
		}
		if err := s.remote.DeleteMembersByTenant(ctx, tenant); err != nil {
			return err
		}
		if err := s.remote.DeleteResourcesByTenant(ctx, tenant); err != nil {
			return err
		}
		if err := s.remote.DeleteTenant(ctx, tenant); err != nil {
			return err
		}
	}

	if err := s.cache.ClearState(ctx); err != nil {
		return err
	}

	sess.State = models.DefaultState()
	sess.TenantCode = sess.State.TenantCode

	s.log.Info(ctx, "tenant reset", "tenant", tenant)
	return nil
}
