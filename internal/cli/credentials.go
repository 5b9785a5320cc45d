package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/smartclass/classvault/internal/models"
	"github.com/smartclass/classvault/internal/vault"
)

// ListCredentials shows every credential to the owner and only the
// member's own rows to a member.
func (a *App) ListCredentials(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	resources := make(map[string]models.Resource, len(a.sess.State.Resources))
	for _, r := range a.sess.State.Resources {
		resources[r.ID] = r
	}
	members := make(map[string]models.Member, len(a.sess.State.Members))
	for _, m := range a.sess.State.Members {
		members[m.ID] = m
	}

	for _, c := range a.sess.State.Credentials {
		if a.sess.Role == models.RoleMember && c.MemberID != a.sess.Member.ID {
			continue
		}
		printlnFn(fmt.Sprintf("%s  %-20s %-20s %-20s %s",
			c.ID, members[c.MemberID].DisplayName, resources[c.ResourceID].Name, c.Username, c.Password))
	}
	return nil
}

func (a *App) AddCredential(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	resourceID, err := GetSimpleText(a.reader, "-Enter resource id", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	memberID, err := GetSimpleText(a.reader, "-Enter member id", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	username, err := GetSimpleText(a.reader, "-Enter username", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	password, err := GetSimpleText(a.reader, "-Enter password (may be empty)", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if _, err := a.svc.AddCredential(ctx, a.sess, resourceID, memberID, username, password); err != nil {
		log.Printf("%v", err)
		return err
	}
	log.Println("Credential added")
	return nil
}

// ImportCredentials reads a three-column CSV (member name, username,
// password) for one resource. Rows naming an unknown member are skipped.
func (a *App) ImportCredentials(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	resourceID, err := GetSimpleText(a.reader, "-Enter resource id", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	path, err := GetSimpleText(a.reader, "-Enter CSV file path", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	rows, err := readCredentialCSV(path)
	if err != nil {
		log.Printf("error reading %s: %v", path, err)
		return err
	}

	n, err := a.svc.ImportCredentials(ctx, a.sess, resourceID, rows)
	if err != nil {
		log.Printf("%v", err)
		return err
	}
	log.Printf("Imported %d of %d credentials", n, len(rows))
	return nil
}

func (a *App) DeleteCredential(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	id, err := GetSimpleText(a.reader, "-Enter credential id", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.svc.DeleteCredential(ctx, a.sess, id); err != nil {
		log.Printf("%v", err)
		return err
	}
	log.Println("Credential deleted")
	return nil
}

func readCredentialCSV(path string) ([]vault.CredentialImportRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows []vault.CredentialImportRow
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
		row := vault.CredentialImportRow{MemberName: rec[0]}
		if len(rec) > 1 {
			row.Username = rec[1]
		}
		if len(rec) > 2 {
			row.Password = rec[2]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
