package vault

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/smartclass/classvault/internal/models"
)

var exportHeader = []string{"Member Name", "Entrance Code", "Resource", "Username", "Password", "URL"}

// ExportCSV writes a plaintext backup of every credential, one row per
// credential, joined with its member and resource. The output starts
// with a UTF-8 BOM so spreadsheet tools pick the right encoding.
func (s *Service) ExportCSV(sess *models.Session, w io.Writer) error {
	if err := requireOwner(sess); err != nil {
		return err
	}

	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	members := make(map[string]models.Member, len(sess.State.Members))
	for _, m := range sess.State.Members {
		members[m.ID] = m
	}
	resources := make(map[string]models.Resource, len(sess.State.Resources))
	for _, r := range sess.State.Resources {
		resources[r.ID] = r
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, c := range sess.State.Credentials {
		m := members[c.MemberID]
		r := resources[c.ResourceID]
		row := []string{m.DisplayName, m.EntranceCode, r.Name, c.Username, c.Password, r.URL}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return nil
}
