package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/socrp/internal/client/client"
	"github.com/dmitrijs2005/socrp/internal/client/models"
)

var errUsage = errors.New("usage")

func usage(s string) error {
	return fmt.Errorf("%w: %s", errUsage, s)
}

// describeError turns an API failure into the line shown to the user.
func describeError(err error) string {
	var e *client.Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	switch e.Kind {
	case client.KindUnreachable:
		return "server unreachable, try again later"
	case client.KindForbidden:
		return "access denied, sign in again"
	default:
		if msg := e.Message(); msg != "" {
			return fmt.Sprintf("rejected (%d): %s", e.Status, msg)
		}
		return fmt.Sprintf("rejected (%d)", e.Status)
	}
}

func parseID(args []string, cmd string) (int64, error) {
	if len(args) < 1 {
		return 0, usage(cmd + " <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, usage(cmd + " <id>")
	}
	return id, nil
}

func printProfile(w io.Writer, p models.Profile) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if p.HasID() {
		fmt.Fprintf(tw, "id\t%d\n", p.ID)
	} else {
		fmt.Fprintf(tw, "id\t(not saved yet)\n")
	}
	if p.FullName != "" {
		fmt.Fprintf(tw, "name\t%s\n", p.FullName)
	}
	for _, name := range models.ScalarFields {
		v, _ := p.Scalar(name)
		fmt.Fprintf(tw, "%s\t%s\n", name, v)
	}
	fmt.Fprintf(tw, "%s\t%s\n", models.FieldProfilePhoto, p.ProfilePhoto)
	fmt.Fprintf(tw, "%s\t%s\n", models.FieldResume, p.Resume)
	tw.Flush()

	fmt.Fprintf(w, "educations (%d):\n", len(p.Educations))
	for i, e := range p.Educations {
		fmt.Fprintf(w, "  %d. %s, %s (%d) %s\n", i+1, e.Degree, e.University, e.YearOfCompletion, e.MarksCGPA)
	}
	fmt.Fprintf(w, "experiences (%d):\n", len(p.Experiences))
	for i, e := range p.Experiences {
		end := e.EndDate
		if end == "" {
			end = "present"
		}
		fmt.Fprintf(w, "  %d. %s at %s, %s to %s\n", i+1, e.Designation, e.CompanyName, e.StartDate, end)
		if e.Responsibilities != "" {
			fmt.Fprintf(w, "     %s\n", e.Responsibilities)
		}
	}
}

func printStats(w io.Writer, s models.DashboardStats) {
	fmt.Fprintf(w, "total %d | active %d | blocked %d | pending %d\n",
		s.TotalUsers, s.ActiveUsers, s.BlockedUsers, s.PendingUsers)
}

func printUsers(w io.Writer, users []models.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "no users")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMEMBERSHIP\tNAME\tEMAIL\tSTATUS")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.MembershipID, u.FullName, u.Email, u.Status())
	}
	tw.Flush()
}

func printUser(w io.Writer, u models.User) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "id\t%d\n", u.ID)
	fmt.Fprintf(tw, "membership\t%s\n", u.MembershipID)
	fmt.Fprintf(tw, "name\t%s\n", u.FullName)
	fmt.Fprintf(tw, "email\t%s\n", u.Email)
	fmt.Fprintf(tw, "phone\t%s\n", u.Phone)
	fmt.Fprintf(tw, "status\t%s\n", u.Status())
	fmt.Fprintf(tw, "verified\t%t\n", u.IsVerified)
	tw.Flush()
	if u.Profile != nil {
		fmt.Fprintln(w, "profile:")
		printProfile(w, *u.Profile)
	}
}
