package vault

import (
	"net/url"

	"github.com/smartclass/classvault/internal/common"
	"github.com/smartclass/classvault/internal/models"
)

// InviteLink builds a shareable URL that carries the remote store
// coordinates as query parameters. Another install opened with this link
// picks up the same remote store; with setup true the receiving side is
// asked to persist the coordinates before logging in. Owner only: the
// descriptor is the key to the whole store.
func (s *Service) InviteLink(sess *models.Session, base string, setup bool) (string, error) {
	if err := requireOwner(sess); err != nil {
		return "", err
	}
	if s.desc.Empty() {
		return "", common.ErrRemoteRequired
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("surl", s.desc.Endpoint)
	q.Set("skey", s.desc.AccessKey)
	if setup {
		q.Set("mode", "setup")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
