package vault

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/smartclass/classvault/internal/models"
)

// CredentialImportRow is one pre-validated row of a bulk credential
// import for a single resource. Members are matched by display name.
type CredentialImportRow struct {
	MemberName string
	Username   string
	Password   string
}

// AddCredential links a member to a resource. The local state keeps the
// password in plaintext (the whole blob is encrypted at rest); the
// remote copy gets the password field-encrypted under the tenant code.
// An empty password stays an empty string end to end.
func (s *Service) AddCredential(ctx context.Context, sess *models.Session, resourceID, memberID, username, password string) (*models.Credential, error) {
	if err := requireOwner(sess); err != nil {
		return nil, err
	}

	cred := models.Credential{
		ID:           uuid.NewString(),
		ResourceID:   resourceID,
		MemberID:     memberID,
		Username:     username,
		Password:     password,
		OwningTenant: sess.TenantCode,
	}

	if err := s.upsertRemoteCredential(ctx, sess, cred); err != nil {
		return nil, err
	}

	err := s.rec.ApplyMutation(ctx, sess, func(st models.State) models.State {
		st.Credentials = append(st.Credentials, cred)
		return st
	})
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// ImportCredentials adds rows in bulk for one resource. Rows naming an
// unknown member are silently skipped; the return value is the aggregate
// count of credentials created.
func (s *Service) ImportCredentials(ctx context.Context, sess *models.Session, resourceID string, rows []CredentialImportRow) (int, error) {
	if err := requireOwner(sess); err != nil {
		return 0, err
	}

	byName := make(map[string]string, len(sess.State.Members))
	for _, m := range sess.State.Members {
		byName[m.DisplayName] = m.ID
	}

	var added []models.Credential
	for _, row := range rows {
		memberID, ok := byName[row.MemberName]
		if !ok {
			continue
		}
		cred := models.Credential{
			ID:           uuid.NewString(),
			ResourceID:   resourceID,
			MemberID:     memberID,
			Username:     row.Username,
			Password:     row.Password,
			OwningTenant: sess.TenantCode,
		}
		if err := s.upsertRemoteCredential(ctx, sess, cred); err != nil {
			s.log.Warn(ctx, "skipping credential row", "member", row.MemberName, "error", err)
			continue
		}
		added = append(added, cred)
	}

	if len(added) == 0 {
		return 0, nil
	}

	err := s.rec.ApplyMutation(ctx, sess, func(st models.State) models.State {
		st.Credentials = append(st.Credentials, added...)
		return st
	})
	if err != nil {
		return 0, err
	}
	return len(added), nil
}

// DeleteCredential removes a single credential.
func (s *Service) DeleteCredential(ctx context.Context, sess *models.Session, id string) error {
	if err := requireOwner(sess); err != nil {
		return err
	}

	if s.remote != nil {
		if err := s.remote.DeleteCredential(ctx, id); err != nil {
			return err
		}
	}

	return s.rec.ApplyMutation(ctx, sess, func(st models.State) models.State {
		st.Credentials = filterCredentials(st.Credentials, func(c models.Credential) bool { return c.ID != id })
		return st
	})
}

// DeleteAllCredentials wipes every credential the tenant owns.
func (s *Service) DeleteAllCredentials(ctx context.Context, sess *models.Session) error {
	if err := requireOwner(sess); err != nil {
		return err
	}

	if s.remote != nil {
		if err := s.remote.DeleteCredentialsByTenant(ctx, sess.TenantCode); err != nil {
			return err
		}
	}

	return s.rec.ApplyMutation(ctx, sess, func(st models.State) models.State {
		st.Credentials = []models.Credential{}
		return st
	})
}

func (s *Service) upsertRemoteCredential(ctx context.Context, sess *models.Session, cred models.Credential) error {
	if s.remote == nil {
		return nil
	}
	encrypted, err := s.codec.EncryptField(cred.Password, sess.TenantCode)
	if err != nil {
		return err
	}
	remoteCopy := cred
	remoteCopy.Password = encrypted
	if err := s.remote.UpsertCredential(ctx, remoteCopy); err != nil {
		return fmt.Errorf("saving credential: %w", err)
	}
	return nil
}
