// Package cli is the interactive terminal front end: a REPL over the
// session resolver and the vault service. One login prompt serves owners
// and members alike; the resolved role decides which commands apply.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/smartclass/classvault/internal/models"
	"github.com/smartclass/classvault/internal/session"
	"github.com/smartclass/classvault/internal/vault"
)

// errNotLoggedIn is returned by handlers invoked before a login.
var errNotLoggedIn = errors.New("not logged in")

type App struct {
	// SetupMode starts with registration instead of silent re-entry,
	// set when the app was launched from an invite link in setup mode.
	SetupMode bool

	svc      *vault.Service
	resolver *session.Resolver
	sess     *models.Session
	reader   *bufio.Reader
	out      *os.File
}

func NewApp(svc *vault.Service, resolver *session.Resolver) *App {
	return &App{
		svc:      svc,
		resolver: resolver,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}
}

func (a *App) isLoggedIn() bool {
	return a.sess != nil
}

// requireSession rejects commands typed before login, before any handler
// touches session state or prompts for input.
func (a *App) requireSession() error {
	if a.sess == nil {
		log.Println("Not logged in: type 'login' or 'register' first")
		return errNotLoggedIn
	}
	return nil
}

func (a *App) isOwner() bool {
	return a.sess.IsOwner()
}

func (a *App) getStatus() string {
	if a.sess == nil {
		return ">"
	}
	if a.sess.Role == models.RoleMember {
		return fmt.Sprintf("(%s) >", a.sess.Member.DisplayName)
	}
	return fmt.Sprintf("(owner %s) >", a.sess.TenantCode)
}

// Run tries a silent member re-entry first, then hands over to the REPL.
func (a *App) Run(ctx context.Context) {
	log.Println("Welcome to ClassVault (type 'help' for commands)")

	if a.SetupMode {
		_ = a.Register(ctx)
	} else if sess, err := a.resolver.AutoLogin(ctx); err == nil {
		a.sess = sess
		log.Printf("Welcome back, %s", sess.Member.DisplayName)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
