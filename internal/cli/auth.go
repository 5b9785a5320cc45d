package cli

import (
	"context"
	"errors"
	"log"

	"github.com/smartclass/classvault/internal/common"
)

// Login resolves whatever code the user enters: owner codes open the
// tenant workspace, member entrance codes open a member view.
func (a *App) Login(ctx context.Context) error {
	code, err := GetSecret("Enter access code", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	defer common.WipeByteArray(code)

	sess, err := a.resolver.Resolve(ctx, string(code))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNoSession):
			log.Println("No class or member matches that code")
		case errors.Is(err, common.ErrRemoteRequired):
			log.Printf("%v", err)
		default:
			log.Printf("Login unsuccessful: %s", err.Error())
		}
		return err
	}

	a.sess = sess
	if sess.IsOwner() {
		log.Printf("Logged in as owner of class %s", sess.TenantCode)
	} else {
		log.Printf("Logged in as %s", sess.Member.DisplayName)
	}
	return nil
}

// Register claims a new class code and opens the fresh owner session.
func (a *App) Register(ctx context.Context) error {
	code, err := GetSimpleText(a.reader, "-Enter new class code", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	sess, err := a.svc.RegisterTenant(ctx, code)
	if err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	a.sess = sess
	log.Printf("Class %s registered", sess.TenantCode)
	return nil
}

// Logout drops the in-memory session and clears the auto-login marker.
// The encrypted local cache survives for the next owner login.
func (a *App) Logout(ctx context.Context) error {
	if err := a.resolver.Logout(ctx); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	a.sess = nil
	log.Println("Logged out")
	return nil
}
