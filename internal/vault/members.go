package vault

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/smartclass/classvault/internal/common"
	"github.com/smartclass/classvault/internal/models"
)

// MemberImportRow is one pre-validated row of a bulk roster import. CSV
// parsing happens upstream; this layer only sees clean values.
type MemberImportRow struct {
	Name         string
	EntranceCode string
}

// AddMember creates a roster entry. An empty entranceCode gets a random
// 6-character uppercase code assigned.
func (s *Service) AddMember(ctx context.Context, sess *models.Session, name, entranceCode string) (*models.Member, error) {
	if err := requireOwner(sess); err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(entranceCode))
	if code == "" {
		code = common.RandEntranceCode()
	}

	if !s.guard.EntranceCodeAvailable(ctx, code, "") {
		return nil, common.ErrCodeTaken
	}

	m := models.Member{
		ID:           uuid.NewString(),
		DisplayName:  name,
		EntranceCode: code,
		OwningTenant: sess.TenantCode,
	}

	if s.remote != nil {
		if err := s.remote.UpsertMember(ctx, m); err != nil {
			return nil, fmt.Errorf("saving member: %w", err)
		}
	}

	err := s.rec.ApplyMutation(ctx, sess, func(st models.State) models.State {
		st.Members = append(st.Members, m)
		return st
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ImportMembers registers rows in bulk. Rows whose code is already taken
// are silently skipped; the return value is the aggregate count of
// members created, never a per-row error list.
func (s *Service) ImportMembers(ctx context.Context, sess *models.Session, rows []MemberImportRow) (int, error) {
	if err := requireOwner(sess); err != nil {
		return 0, err
	}

	var added []models.Member
	for _, row := range rows {
		code := strings.ToUpper(strings.TrimSpace(row.EntranceCode))
		if code == "" {
			code = common.RandEntranceCode()
		}
		if !s.guard.EntranceCodeAvailable(ctx, code, "") {
			continue
		}

		m := models.Member{
			ID:           uuid.NewString(),
			DisplayName:  row.Name,
			EntranceCode: code,
			OwningTenant: sess.TenantCode,
		}
		if s.remote != nil {
			if err := s.remote.UpsertMember(ctx, m); err != nil {
				s.log.Warn(ctx, "skipping import row", "member", row.Name, "error", err)
				continue
			}
		}
		added = append(added, m)
	}

	if len(added) == 0 {
		return 0, nil
	}

	err := s.rec.ApplyMutation(ctx, sess, func(st models.State) models.State {
		st.Members = append(st.Members, added...)
		return st
	})
	if err != nil {
		return 0, err
	}
	return len(added), nil
}

// RotateEntranceCode is member self-service: a member changes their own
// entrance code. The auto-login marker follows the new code so silent
// re-entry keeps working.
func (s *Service) RotateEntranceCode(ctx context.Context, sess *models.Session, newCode string) error {
	if err := requireMember(sess); err != nil {
		return err
	}
	code := strings.ToUpper(strings.TrimSpace(newCode))
	if code == "" {
		return common.ErrEmptyCode
	}

	if !s.guard.EntranceCodeAvailable(ctx, code, sess.Member.ID) {
		return common.ErrCodeTaken
	}

	updated := *sess.Member
	updated.EntranceCode = code
	if updated.OwningTenant == "" {
		updated.OwningTenant = sess.TenantCode
	}

	if s.remote != nil {
		if err := s.remote.UpsertMember(ctx, updated); err != nil {
			return fmt.Errorf("saving member: %w", err)
		}
	}

	sess.Member = &updated
	if err := s.rec.ApplyMutation(ctx, sess, func(st models.State) models.State {
		members := make([]models.Member, len(st.Members))
		copy(members, st.Members)
		for i := range members {
			if members[i].ID == updated.ID {
				members[i] = updated
			}
		}
		st.Members = members
		return st
	}); err != nil {
		return err
	}

	return s.cache.RememberMemberCode(ctx, code)
}

// DeleteMember removes one member and, first, every credential that
// belongs to them.
func (s *Service) DeleteMember(ctx context.Context, sess *models.Session, id string) error {
	if err := requireOwner(sess); err != nil {
		return err
	}

	if s.remote != nil {
		if err := s.remote.DeleteCredentialsByMember(ctx, id); err != nil {
			return err
		}
		if err := s.remote.DeleteMember(ctx, id); err != nil {
			return err
		}
	}

	return s.rec.ApplyMutation(ctx, sess, func(st models.State) models.State {
		st.Members = filterMembers(st.Members, func(m models.Member) bool { return m.ID != id })
		st.Credentials = filterCredentials(st.Credentials, func(c models.Credential) bool { return c.MemberID != id })
		return st
	})
}

// DeleteAllMembers wipes the roster and every credential with it.
func (s *Service) DeleteAllMembers(ctx context.Context, sess *models.Session) error {
	if err := requireOwner(sess); err != nil {
		return err
	}

	if s.remote != nil {
		if err := s.remote.DeleteCredentialsByTenant(ctx, sess.TenantCode); err != nil {
			return err
		}
		if err := s.remote.DeleteMembersByTenant(ctx, sess.TenantCode); err != nil {
			return err
		}
	}

	return s.rec.ApplyMutation(ctx, sess, func(st models.State) models.State {
		st.Members = []models.Member{}
		st.Credentials = []models.Credential{}
		return st
	})
}

func filterMembers(in []models.Member, keep func(models.Member) bool) []models.Member {
	out := make([]models.Member, 0, len(in))
	for _, m := range in {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func filterCredentials(in []models.Credential, keep func(models.Credential) bool) []models.Credential {
	out := make([]models.Credential, 0, len(in))
	for _, c := range in {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
