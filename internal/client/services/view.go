package services

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/socrp/internal/client/models"
)

// ViewKind names the screens of the admin back-office.
type ViewKind int

const (
	ViewDashboard ViewKind = iota
	ViewUserList
	ViewUserProfile
	ViewEditUser
	ViewSignedOut
)

func (k ViewKind) String() string {
	switch k {
	case ViewDashboard:
		return "dashboard"
	case ViewUserList:
		return "users"
	case ViewUserProfile:
		return "user-profile"
	case ViewEditUser:
		return "edit-user"
	case ViewSignedOut:
		return "signed-out"
	default:
		return fmt.Sprintf("ViewKind(%d)", int(k))
	}
}

// View is the current admin screen. The profile and edit screens always
// carry the user they show; there is no way to build one without it.
type View struct {
	kind       ViewKind
	user       *models.User
	entryPoint string
}

func DashboardView() View { return View{kind: ViewDashboard} }

func UserListView() View { return View{kind: ViewUserList} }

func UserProfileView(u models.User) View { return View{kind: ViewUserProfile, user: &u} }

func EditUserView(u models.User) View { return View{kind: ViewEditUser, user: &u} }

func signedOutView(entryPoint string) View {
	return View{kind: ViewSignedOut, entryPoint: entryPoint}
}

func (v View) Kind() ViewKind { return v.kind }

// User returns the record shown by a profile or edit view.
func (v View) User() (models.User, bool) {
	if v.user == nil {
		return models.User{}, false
	}
	return *v.user, true
}

// EntryPoint is where a signed-out view sends the operator.
func (v View) EntryPoint() string { return v.entryPoint }

func (v View) shows(id int64) bool {
	return v.user != nil && v.user.ID == id
}

func (v View) String() string {
	switch {
	case v.user != nil:
		return fmt.Sprintf("%s #%d", v.kind, v.user.ID)
	case v.kind == ViewSignedOut:
		return fmt.Sprintf("%s (%s)", v.kind, v.entryPoint)
	default:
		return v.kind.String()
	}
}

// StatusFilter selects users by moderation status.
type StatusFilter string

const (
	StatusAll     StatusFilter = "all"
	StatusActive  StatusFilter = "active"
	StatusBlocked StatusFilter = "blocked"
	StatusPending StatusFilter = "pending"
)

// ParseStatus accepts all, active, blocked and pending (any case). An empty
// string means all.
func ParseStatus(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return StatusAll, nil
	case StatusAll, StatusActive, StatusBlocked, StatusPending:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Match reports whether u falls under the filter:
// active is active and not blocked, blocked is blocked whatever the active
// flag, pending is neither active nor blocked.
func (f StatusFilter) Match(u models.User) bool {
	switch f {
	case StatusAll:
		return true
	case StatusActive:
		return u.IsActive && !u.IsBlocked
	case StatusBlocked:
		return u.IsBlocked
	case StatusPending:
		return !u.IsActive && !u.IsBlocked
	}
	return false
}

// Filter returns the users whose name or email contains query (case
// insensitive, whitespace significant) and whose status matches. An empty
// query matches everyone. It does not modify users.
func Filter(users []models.User, query string, status StatusFilter) []models.User {
	q := strings.ToLower(query)
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if !status.Match(u) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(u.FullName), q) &&
			!strings.Contains(strings.ToLower(u.Email), q) {
			continue
		}
		out = append(out, u)
	}
	return out
}
