package cli

import (
	"context"
	"log"
	"os"
)

const defaultInviteBase = "https://classvault.example/join"

// ChangeCode rotates the owner's class code.
func (a *App) ChangeCode(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	code, err := GetSimpleText(a.reader, "-Enter new class code", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.svc.ChangeTenantCode(ctx, a.sess, code); err != nil {
		log.Printf("%v", err)
		return err
	}
	log.Printf("Class code changed to %s", a.sess.TenantCode)
	return nil
}

// Export writes the plaintext CSV backup to a file.
func (a *App) Export(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	path, err := GetSimpleText(a.reader, "-Enter output file path", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		log.Printf("error creating %s: %v", path, err)
		return err
	}
	defer f.Close()

	if err := a.svc.ExportCSV(a.sess, f); err != nil {
		log.Printf("%v", err)
		return err
	}
	log.Printf("Backup written to %s", path)
	return nil
}

// Invite prints a shareable link carrying the remote store coordinates.
// Owner only, enforced by the service.
func (a *App) Invite(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	setup, err := GetSimpleText(a.reader, "-Setup mode? (y/N)", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	link, err := a.svc.InviteLink(a.sess, defaultInviteBase, setup == "y" || setup == "Y")
	if err != nil {
		log.Printf("%v", err)
		return err
	}
	printlnFn(link)
	return nil
}

// Reset deletes everything the class owns after an explicit confirmation
// and ends the session.
func (a *App) Reset(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	confirm, err := GetSimpleText(a.reader, "-Type 'reset' to delete ALL class data", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if confirm != "reset" {
		log.Println("Cancelled")
		return nil
	}

	if err := a.svc.FullReset(ctx, a.sess); err != nil {
		log.Printf("%v", err)
		return err
	}
	a.sess = nil
	log.Println("All class data deleted")
	return nil
}
