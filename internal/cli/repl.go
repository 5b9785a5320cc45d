package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isOwner() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ListMembers(ctx context.Context) error
	AddMember(ctx context.Context) error
	ImportMembers(ctx context.Context) error
	DeleteMember(ctx context.Context) error
	ListResources(ctx context.Context) error
	AddResource(ctx context.Context) error
	DeleteResource(ctx context.Context) error
	ListCredentials(ctx context.Context) error
	AddCredential(ctx context.Context) error
	ImportCredentials(ctx context.Context) error
	DeleteCredential(ctx context.Context) error
	RotateCode(ctx context.Context) error
	ChangeCode(ctx context.Context) error
	Export(ctx context.Context) error
	Invite(ctx context.Context) error
	Reset(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the ClassVault CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// A single "login" prompt serves every role: the entered code is resolved
// to either an owner or a member session.
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("cv> %s ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			switch {
			case !a.isLoggedIn():
				printlnFn("Available commands: register, login, exit")
			case a.isOwner():
				printlnFn("Available commands: members, addmember, importmembers, delmember,")
				printlnFn("  resources, addresource, delresource, creds, addcred, importcreds, delcred,")
				printlnFn("  export, invite, changecode, reset, logout, exit")
			default:
				printlnFn("Available commands: creds, rotatecode, logout, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "m", "members":
			_ = a.ListMembers(ctx)

		case "addmember":
			_ = a.AddMember(ctx)

		case "importmembers":
			_ = a.ImportMembers(ctx)

		case "delmember":
			_ = a.DeleteMember(ctx)

		case "r", "resources":
			_ = a.ListResources(ctx)

		case "addresource":
			_ = a.AddResource(ctx)

		case "delresource":
			_ = a.DeleteResource(ctx)

		case "c", "creds":
			_ = a.ListCredentials(ctx)

		case "addcred":
			_ = a.AddCredential(ctx)

		case "importcreds":
			_ = a.ImportCredentials(ctx)

		case "delcred":
			_ = a.DeleteCredential(ctx)

		case "rotatecode":
			_ = a.RotateCode(ctx)

		case "changecode":
			_ = a.ChangeCode(ctx)

		case "export":
			_ = a.Export(ctx)

		case "invite":
			_ = a.Invite(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
