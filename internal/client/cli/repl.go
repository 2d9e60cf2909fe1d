package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	signedIn() bool
	adminSignedIn() bool

	Register(ctx context.Context) error
	Verify(ctx context.Context, args []string) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	ShowProfile(ctx context.Context) error
	EditField(ctx context.Context, args []string) error
	AddEducation(ctx context.Context) error
	AddExperience(ctx context.Context) error
	Attach(ctx context.Context, args []string) error
	SaveProfile(ctx context.Context) error
	Share(ctx context.Context, args []string) error
	OpenShared(ctx context.Context, args []string) error

	AdminLogin(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Users(ctx context.Context, args []string) error
	ShowUser(ctx context.Context, args []string) error
	ToggleBlock(ctx context.Context, args []string) error
	EditUser(ctx context.Context, args []string) error
	AdminLogout(ctx context.Context) error
}

const (
	helpPublic = "Available commands: register, verify <uid>, login, admin-login, open <link>, exit"
	helpMember = "Member commands: profile, edit <field> <value>, addedu, addexp, attach <profile_photo|resume> <path>, save, share <days>, whoami, logout"
	helpAdmin  = "Admin commands: dashboard, users [all|active|blocked|pending] [search], user <id>, block <id>, unblock <id>, edituser <id>, admin-logout"
)

// runREPL starts a simple read–eval–print loop.
//
// It reads a line from r, parses the first token as the command and
// dispatches to methods on 'a' with the remaining tokens as arguments. The
// loop exits on EOF or when the user types "exit" or "quit".
//
// Command errors are printed and the loop goes on; a failed command never
// ends the session.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("socrp %s> ", statusFn()))
		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpPublic)
			if a.signedIn() {
				printlnFn(helpMember)
			}
			if a.adminSignedIn() {
				printlnFn(helpAdmin)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "verify":
			cmdErr = a.Verify(ctx, args)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "profile":
			cmdErr = a.ShowProfile(ctx)
		case "edit":
			cmdErr = a.EditField(ctx, args)
		case "addedu":
			cmdErr = a.AddEducation(ctx)
		case "addexp":
			cmdErr = a.AddExperience(ctx)
		case "attach":
			cmdErr = a.Attach(ctx, args)
		case "save":
			cmdErr = a.SaveProfile(ctx)
		case "share":
			cmdErr = a.Share(ctx, args)
		case "open":
			cmdErr = a.OpenShared(ctx, args)

		case "admin-login":
			cmdErr = a.AdminLogin(ctx)
		case "dashboard":
			cmdErr = a.Dashboard(ctx)
		case "users":
			cmdErr = a.Users(ctx, args)
		case "user":
			cmdErr = a.ShowUser(ctx, args)
		case "block", "unblock":
			cmdErr = a.ToggleBlock(ctx, append([]string{cmd}, args...))
		case "edituser":
			cmdErr = a.EditUser(ctx, args)
		case "admin-logout":
			cmdErr = a.AdminLogout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", describeError(cmdErr))
		}
		if err != nil {
			return
		}
	}
}
