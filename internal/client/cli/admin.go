package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/socrp/internal/client/models"
	"github.com/dmitrijs2005/socrp/internal/client/services"
)

// AdminLogin signs the operator in and shows the dashboard.
func (a *App) AdminLogin(ctx context.Context) error {
	creds, err := a.readCredentials()
	if err != nil {
		return err
	}

	if err := a.authService.AdminLogin(ctx, creds); err != nil {
		return err
	}
	a.println("Admin login successful")
	a.admin.Navigate(services.DashboardView())
	return a.Dashboard(ctx)
}

func (a *App) Dashboard(ctx context.Context) error {
	a.admin.Navigate(services.DashboardView())
	if err := a.admin.LoadAll(ctx); err != nil {
		return err
	}
	if stats, ok := a.admin.Stats(); ok {
		printStats(a.out, stats)
	}
	printUsers(a.out, a.admin.Visible())
	return nil
}

// Users lists the cached table: users [status] [search...]. The first
// argument is taken as a status when it parses as one.
func (a *App) Users(ctx context.Context, args []string) error {
	status := services.StatusAll
	if len(args) > 0 {
		if s, err := services.ParseStatus(args[0]); err == nil {
			status = s
			args = args[1:]
		}
	}
	a.admin.SetStatus(status)
	a.admin.SetQuery(strings.Join(args, " "))

	if len(a.admin.Users()) == 0 {
		if err := a.admin.LoadAll(ctx); err != nil {
			return err
		}
	}
	a.admin.Navigate(services.UserListView())
	printUsers(a.out, a.admin.Visible())
	return nil
}

// ShowUser opens the detail screen: user <id>.
func (a *App) ShowUser(ctx context.Context, args []string) error {
	id, err := parseID(args, "user")
	if err != nil {
		return err
	}
	if err := a.admin.ViewUser(ctx, id); err != nil {
		return err
	}
	if u, ok := a.admin.View().User(); ok {
		printUser(a.out, u)
	}
	return nil
}

// ToggleBlock handles "block <id>" and "unblock <id>". The current state is
// taken from the cache so the inverse action is sent.
func (a *App) ToggleBlock(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("block|unblock <id>")
	}
	cmd := args[0]
	id, err := parseID(args[1:], cmd)
	if err != nil {
		return err
	}

	current := cmd == "unblock"
	for _, u := range a.admin.Users() {
		if u.ID == id {
			current = u.IsBlocked
		}
	}
	msg, err := a.admin.ToggleBlock(ctx, id, current)
	if err != nil {
		return err
	}
	a.println(msg)
	if stats, ok := a.admin.Stats(); ok {
		printStats(a.out, stats)
	}
	return nil
}

// EditUser fetches a user, opens the edit form and submits the changes.
// Empty answers keep the current value.
func (a *App) EditUser(ctx context.Context, args []string) error {
	id, err := parseID(args, "edituser")
	if err != nil {
		return err
	}
	if err := a.admin.ViewUser(ctx, id); err != nil {
		return err
	}
	if err := a.admin.EditUserPage(id); err != nil {
		return err
	}
	u, _ := a.admin.View().User()

	var patch models.UserPatch
	ask := func(label, current string) (*string, error) {
		v, err := getSimpleText(a.reader, label+" ["+current+"]", a.out)
		if err != nil || v == "" || v == current {
			return nil, err
		}
		return &v, nil
	}
	if patch.FullName, err = ask("Full name", u.FullName); err != nil {
		return err
	}
	if patch.Email, err = ask("Email", u.Email); err != nil {
		return err
	}
	if patch.Phone, err = ask("Phone", u.Phone); err != nil {
		return err
	}
	if patch.IsActive, err = a.askBool("Active", u.IsActive); err != nil {
		return err
	}
	if patch.IsBlocked, err = a.askBool("Blocked", u.IsBlocked); err != nil {
		return err
	}

	var current models.Profile
	if u.Profile != nil {
		current = *u.Profile
	}
	profile := &models.ProfilePatch{}
	for _, name := range models.ScalarFields {
		was, _ := current.Scalar(name)
		v, err := ask(name, was)
		if err != nil {
			return err
		}
		if v != nil {
			profile.Set(name, *v)
		}
	}
	if !profile.IsEmpty() {
		patch.Profile = profile
	}

	if patch.ProfilePhoto, err = a.promptFile("New profile photo path"); err != nil {
		return err
	}
	if patch.Resume, err = a.promptFile("New resume path"); err != nil {
		return err
	}

	if patch.IsEmpty() {
		a.admin.Navigate(services.DashboardView())
		a.println("Nothing changed")
		return nil
	}
	if err := a.admin.SubmitEdit(ctx, id, patch); err != nil {
		return err
	}
	a.println("User updated")
	printUsers(a.out, a.admin.Visible())
	return nil
}

// askBool reads a yes/no answer. An empty answer or the current value
// yields nil.
func (a *App) askBool(label string, current bool) (*bool, error) {
	v, err := getSimpleText(a.reader, fmt.Sprintf("%s? (yes/no) [%s]", label, yesNo(current)), a.out)
	if err != nil {
		return nil, err
	}
	var b bool
	switch strings.ToLower(v) {
	case "yes", "y":
		b = true
	case "no", "n":
		b = false
	default:
		return nil, nil
	}
	if b == current {
		return nil, nil
	}
	return &b, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (a *App) AdminLogout(ctx context.Context) error {
	if err := a.admin.Logout(ctx); err != nil {
		return err
	}
	a.printf("Signed out. Sign in again at %s\n", a.admin.View().EntryPoint())
	return nil
}
