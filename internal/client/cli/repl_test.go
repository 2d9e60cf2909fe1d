package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	member bool
	admin  bool

	calls []string
	args  map[string][]string
	err   error
}

func (f *fakeExec) rec(name string, args []string) error {
	f.calls = append(f.calls, name)
	if f.args == nil {
		f.args = map[string][]string{}
	}
	f.args[name] = args
	return f.err
}

func (f *fakeExec) signedIn() bool      { return f.member }
func (f *fakeExec) adminSignedIn() bool { return f.admin }

func (f *fakeExec) Register(ctx context.Context) error { return f.rec("register", nil) }
func (f *fakeExec) Verify(ctx context.Context, args []string) error {
	return f.rec("verify", args)
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.member = true
	return f.rec("login", nil)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.member = false
	return f.rec("logout", nil)
}
func (f *fakeExec) WhoAmI(ctx context.Context) error      { return f.rec("whoami", nil) }
func (f *fakeExec) ShowProfile(ctx context.Context) error { return f.rec("profile", nil) }
func (f *fakeExec) EditField(ctx context.Context, args []string) error {
	return f.rec("edit", args)
}
func (f *fakeExec) AddEducation(ctx context.Context) error  { return f.rec("addedu", nil) }
func (f *fakeExec) AddExperience(ctx context.Context) error { return f.rec("addexp", nil) }
func (f *fakeExec) Attach(ctx context.Context, args []string) error {
	return f.rec("attach", args)
}
func (f *fakeExec) SaveProfile(ctx context.Context) error { return f.rec("save", nil) }
func (f *fakeExec) Share(ctx context.Context, args []string) error {
	return f.rec("share", args)
}
func (f *fakeExec) OpenShared(ctx context.Context, args []string) error {
	return f.rec("open", args)
}
func (f *fakeExec) AdminLogin(ctx context.Context) error {
	f.admin = true
	return f.rec("admin-login", nil)
}
func (f *fakeExec) Dashboard(ctx context.Context) error { return f.rec("dashboard", nil) }
func (f *fakeExec) Users(ctx context.Context, args []string) error {
	return f.rec("users", args)
}
func (f *fakeExec) ShowUser(ctx context.Context, args []string) error {
	return f.rec("user", args)
}
func (f *fakeExec) ToggleBlock(ctx context.Context, args []string) error {
	return f.rec("toggle", args)
}
func (f *fakeExec) EditUser(ctx context.Context, args []string) error {
	return f.rec("edituser", args)
}
func (f *fakeExec) AdminLogout(ctx context.Context) error {
	f.admin = false
	return f.rec("admin-logout", nil)
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func runLines(exec execIface, lines ...string) {
	r := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "status" }, r)
}

func TestRunREPL_DispatchesWithArgs(t *testing.T) {
	capturePrintln(t)
	exec := &fakeExec{}

	runLines(exec,
		"login",
		"edit address 12 Elm st",
		"attach resume /tmp/cv.pdf",
		"save",
		"share 7",
		"admin-login",
		"users blocked smith",
		"block 7",
		"unblock 7",
		"user 3",
		"edituser 3",
		"exit",
		"profile",
	)

	assert.Equal(t, []string{
		"login", "edit", "attach", "save", "share",
		"admin-login", "users", "toggle", "toggle", "user", "edituser",
	}, exec.calls)
	assert.Equal(t, []string{"address", "12", "Elm", "st"}, exec.args["edit"])
	assert.Equal(t, []string{"blocked", "smith"}, exec.args["users"])
	assert.Equal(t, []string{"unblock", "7"}, exec.args["toggle"])
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	lines := capturePrintln(t)

	runLines(&fakeExec{}, "help", "quit")
	out := strings.Join(*lines, "\n")
	assert.Contains(t, out, helpPublic)
	assert.NotContains(t, out, helpMember)
	assert.NotContains(t, out, helpAdmin)

	*lines = nil
	runLines(&fakeExec{member: true, admin: true}, "help", "quit")
	out = strings.Join(*lines, "\n")
	assert.Contains(t, out, helpMember)
	assert.Contains(t, out, helpAdmin)
}

func TestRunREPL_ErrorsDoNotStopTheLoop(t *testing.T) {
	lines := capturePrintln(t)
	exec := &fakeExec{err: errors.New("boom")}

	runLines(exec, "whoami", "frobnicate", "logout", "exit")

	assert.Equal(t, []string{"whoami", "logout"}, exec.calls)
	out := strings.Join(*lines, "\n")
	assert.Contains(t, out, "Error: boom")
	assert.Contains(t, out, "Unknown command: frobnicate")
	assert.Contains(t, out, "Bye!")
}

func TestRunREPL_EOFEndsLoop(t *testing.T) {
	capturePrintln(t)
	exec := &fakeExec{}

	runLines(exec, "", "   ", "register")
	require.Equal(t, []string{"register"}, exec.calls)
}
