package vault

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/smartclass/classvault/internal/models"
)

// AddResource creates a catalog entry.
func (s *Service) AddResource(ctx context.Context, sess *models.Session, name, url, description string) (*models.Resource, error) {
	if err := requireOwner(sess); err != nil {
		return nil, err
	}

	res := models.Resource{
		ID:           uuid.NewString(),
		Name:         name,
		URL:          url,
		Description:  description,
		OwningTenant: sess.TenantCode,
	}

	if s.remote != nil {
		if err := s.remote.UpsertResource(ctx, res); err != nil {
			return nil, fmt.Errorf("saving resource: %w", err)
		}
	}

	err := s.rec.ApplyMutation(ctx, sess, func(st models.State) models.State {
		st.Resources = append(st.Resources, res)
		return st
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteResource removes a catalog entry and, first, its dependent
// credentials.
func (s *Service) DeleteResource(ctx context.Context, sess *models.Session, id string) error {
	if err := requireOwner(sess); err != nil {
		return err
	}

	if s.remote != nil {
		if err := s.remote.DeleteCredentialsByResource(ctx, id); err != nil {
			return err
		}
		if err := s.remote.DeleteResource(ctx, id); err != nil {
			return err
		}
	}

	return s.rec.ApplyMutation(ctx, sess, func(st models.State) models.State {
		kept := make([]models.Resource, 0, len(st.Resources))
		for _, r := range st.Resources {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		st.Resources = kept
		st.Credentials = filterCredentials(st.Credentials, func(c models.Credential) bool { return c.ResourceID != id })
		return st
	})
}

// DeleteAllResources clears the catalog and every credential with it.
func (s *Service) DeleteAllResources(ctx context.Context, sess *models.Session) error {
	if err := requireOwner(sess); err != nil {
		return err
	}

	if s.remote != nil {
		if err := s.remote.DeleteCredentialsByTenant(ctx, sess.TenantCode); err != nil {
			return err
		}
		if err := s.remote.DeleteResourcesByTenant(ctx, sess.TenantCode); err != nil {
			return err
		}
	}

	return s.rec.ApplyMutation(ctx, sess, func(st models.State) models.State {
		st.Resources = []models.Resource{}
		st.Credentials = []models.Credential{}
		return st
	})
}
