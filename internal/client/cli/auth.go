package cli

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/socrp/internal/client/models"
	"github.com/dmitrijs2005/socrp/internal/client/session"
)

// getSimpleText, getPassword and getMultiline are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

// promptFile asks for an optional file path. An empty answer means no file.
func (a *App) promptFile(prompt string) (*models.LocalFile, error) {
	path, err := getSimpleText(a.reader, prompt+" (empty to skip)", a.out)
	if err != nil || path == "" {
		return nil, err
	}
	return models.FileFromPath(path)
}

// readCredentials prompts for email and password. The password ends up in
// an immutable string for the JSON body, so it is not wiped.
func (a *App) readCredentials() (models.Credentials, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return models.Credentials{}, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return models.Credentials{}, err
	}
	return models.Credentials{Email: email, Password: string(password)}, nil
}

// Register prompts for the sign-up form and creates the account. Nothing is
// sent unless the terms are accepted and both passwords match.
func (a *App) Register(ctx context.Context) error {
	var reg models.Registration
	var err error

	if reg.FullName, err = getSimpleText(a.reader, "Enter full name", a.out); err != nil {
		return err
	}
	if reg.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if reg.Phone, err = getSimpleText(a.reader, "Enter phone", a.out); err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	confirm, err := getPassword(a.out)
	if err != nil {
		return err
	}
	reg.Password, reg.ConfirmPassword = string(password), string(confirm)

	if reg.ProfilePhoto, err = a.promptFile("Profile photo path"); err != nil {
		return err
	}
	if reg.Resume, err = a.promptFile("Resume path"); err != nil {
		return err
	}

	terms, err := getSimpleText(a.reader, "Accept the terms and conditions? (yes/no)", a.out)
	if err != nil {
		return err
	}
	reg.AcceptedTerms = strings.EqualFold(terms, "yes") || strings.EqualFold(terms, "y")

	msg, err := a.authService.Register(ctx, reg)
	if err != nil {
		return err
	}
	a.println(msg)
	return nil
}

// Verify confirms an email address with the uid from the verification mail.
func (a *App) Verify(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("verify <uid>")
	}
	msg, err := a.authService.VerifyEmail(ctx, args[0])
	if err != nil {
		return err
	}
	a.println(msg)
	return nil
}

// Login signs the member in and loads the profile editor.
func (a *App) Login(ctx context.Context) error {
	creds, err := a.readCredentials()
	if err != nil {
		return err
	}

	if err := a.authService.Login(ctx, creds); err != nil {
		return err
	}
	a.println("Login successful")

	a.editor = a.freshEditor()
	if err := a.editor.Load(ctx); err != nil {
		a.logger.Warn(ctx, "profile load after login failed", "error", err)
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	entry, err := a.authService.Logout(ctx, session.RoleUser)
	if err != nil {
		return err
	}
	a.editor = a.freshEditor()
	a.printf("Signed out. Sign in again at %s\n", entry)
	return nil
}

// WhoAmI prints what the stored tokens claim. The claims are not verified.
func (a *App) WhoAmI(ctx context.Context) error {
	shown := false
	for _, role := range session.Roles {
		c, err := a.authService.WhoAmI(ctx, role)
		if err != nil {
			continue
		}
		shown = true
		state := "valid until " + c.ExpiresAt.Format(time.RFC3339)
		switch {
		case c.ExpiresAt.IsZero():
			state = "no expiry"
		case c.Expired(time.Now()):
			state = "expired at " + c.ExpiresAt.Format(time.RFC3339)
		}
		a.printf("%s: user %s, %s\n", role, c.UserID, state)
	}
	if !shown {
		a.println("not signed in")
	}
	return nil
}
