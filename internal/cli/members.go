package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/smartclass/classvault/internal/common"
	"github.com/smartclass/classvault/internal/vault"
)

// ListMembers prints the roster. Owner only: entrance codes are login
// credentials, so a member never sees anyone else's.
func (a *App) ListMembers(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if !a.isOwner() {
		log.Printf("%v", common.ErrOwnerOnly)
		return common.ErrOwnerOnly
	}
	for _, m := range a.sess.State.Members {
		printlnFn(fmt.Sprintf("%s  %-20s %s", m.ID, m.DisplayName, m.EntranceCode))
	}
	return nil
}

func (a *App) AddMember(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	name, err := GetSimpleText(a.reader, "-Enter member name", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	code, err := GetSimpleText(a.reader, "-Enter entrance code (empty for random)", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	m, err := a.svc.AddMember(ctx, a.sess, name, code)
	if err != nil {
		log.Printf("%v", err)
		return err
	}
	log.Printf("Added %s with entrance code %s", m.DisplayName, m.EntranceCode)
	return nil
}

// ImportMembers reads a two-column CSV (name, entrance code) and
// registers the rows in bulk. Rows with taken codes are skipped; only
// the aggregate count is reported.
func (a *App) ImportMembers(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	path, err := GetSimpleText(a.reader, "-Enter CSV file path", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	rows, err := readMemberCSV(path)
	if err != nil {
		log.Printf("error reading %s: %v", path, err)
		return err
	}

	n, err := a.svc.ImportMembers(ctx, a.sess, rows)
	if err != nil {
		log.Printf("%v", err)
		return err
	}
	log.Printf("Imported %d of %d members", n, len(rows))
	return nil
}

func (a *App) DeleteMember(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	id, err := GetSimpleText(a.reader, "-Enter member id", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.svc.DeleteMember(ctx, a.sess, id); err != nil {
		log.Printf("%v", err)
		return err
	}
	log.Println("Member deleted")
	return nil
}

// RotateCode is member self-service: change your own entrance code.
func (a *App) RotateCode(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	code, err := GetSimpleText(a.reader, "-Enter new entrance code", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.svc.RotateEntranceCode(ctx, a.sess, code); err != nil {
		log.Printf("%v", err)
		return err
	}
	log.Printf("Entrance code changed to %s", a.sess.Member.EntranceCode)
	return nil
}

func readMemberCSV(path string) ([]vault.MemberImportRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows []vault.MemberImportRow
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 0 || rec[0] == "" {
			continue
		}
		row := vault.MemberImportRow{Name: rec[0]}
		if len(rec) > 1 {
			row.EntranceCode = rec[1]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
