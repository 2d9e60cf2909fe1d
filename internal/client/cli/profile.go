package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/socrp/internal/client/models"
	"github.com/dmitrijs2005/socrp/internal/client/services"
)

// ensureLoaded loads the profile on first use.
func (a *App) ensureLoaded(ctx context.Context) error {
	if a.editor.Loaded() {
		return nil
	}
	return a.editor.Load(ctx)
}

func (a *App) ShowProfile(ctx context.Context) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	p := a.editor.Profile()
	printProfile(a.out, p)
	a.printf("state: %s\n", a.editor.State())
	return nil
}

// EditField sets a text field: edit <field> <value...>.
func (a *App) EditField(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("edit <" + strings.Join(models.ScalarFields, "|") + "> <value>")
	}
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	return a.editor.SetField(args[0], strings.Join(args[1:], " "))
}

func (a *App) AddEducation(ctx context.Context) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	var (
		ed  models.Education
		err error
	)
	if ed.Degree, err = getSimpleText(a.reader, "Degree", a.out); err != nil {
		return err
	}
	if ed.University, err = getSimpleText(a.reader, "University", a.out); err != nil {
		return err
	}
	year, err := getSimpleText(a.reader, "Year of completion", a.out)
	if err != nil {
		return err
	}
	if ed.YearOfCompletion, err = strconv.Atoi(year); err != nil {
		return usage("year of completion must be a number")
	}
	if ed.MarksCGPA, err = getSimpleText(a.reader, "Marks / CGPA", a.out); err != nil {
		return err
	}
	return a.editor.AddEducation(ed)
}

func (a *App) AddExperience(ctx context.Context) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	var (
		ex  models.Experience
		err error
	)
	if ex.CompanyName, err = getSimpleText(a.reader, "Company name", a.out); err != nil {
		return err
	}
	if ex.Designation, err = getSimpleText(a.reader, "Designation", a.out); err != nil {
		return err
	}
	if ex.StartDate, err = getSimpleText(a.reader, "Start date (YYYY-MM-DD)", a.out); err != nil {
		return err
	}
	if ex.EndDate, err = getSimpleText(a.reader, "End date (YYYY-MM-DD, empty if current)", a.out); err != nil {
		return err
	}
	if ex.Responsibilities, err = getMultiline(a.reader, "Responsibilities", a.out); err != nil {
		return err
	}
	return a.editor.AddExperience(ex)
}

// Attach selects a local file: attach <profile_photo|resume> <path>.
func (a *App) Attach(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("attach <profile_photo|resume> <path>")
	}
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	f, err := models.FileFromPath(args[1])
	if err != nil {
		return err
	}
	return a.editor.AttachFile(args[0], f)
}

func (a *App) SaveProfile(ctx context.Context) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	if err := a.editor.Submit(ctx); err != nil {
		return err
	}
	p := a.editor.Profile()
	a.printf("Profile saved (id %d)\n", p.ID)
	return nil
}

// Share creates a public link to the profile: share <days>.
func (a *App) Share(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("share <days>")
	}
	days, err := strconv.Atoi(args[0])
	if err != nil {
		return usage("share <days>")
	}
	link, err := a.shares.Generate(ctx, days)
	if err != nil {
		return err
	}
	a.printf("Share link (valid %d days): %s\n", link.ExpiryDays, link.URL)
	return nil
}

// OpenShared shows a shared profile: open <link|token>.
func (a *App) OpenShared(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("open <link>")
	}
	p, err := a.shares.FetchShared(ctx, args[0])
	if errors.Is(err, services.ErrLinkExpired) {
		a.println("Link expired: ask the owner for a new one")
		return nil
	}
	if err != nil {
		return err
	}
	printProfile(a.out, *p)
	return nil
}
