package models

import "fmt"

// User is a platform member as seen by the admin back-office.
type User struct {
	ID           int64    `json:"id"`
	MembershipID string   `json:"membership_id"`
	FullName     string   `json:"full_name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	IsActive     bool     `json:"is_active"`
	IsBlocked    bool     `json:"is_blocked"`
	IsVerified   bool     `json:"is_verified"`
	Profile      *Profile `json:"profile,omitempty"`
}

// Status is the moderation label derived from the active/blocked flags.
func (u *User) Status() string {
	switch {
	case u.IsBlocked:
		return "blocked"
	case u.IsActive:
		return "active"
	default:
		return "pending"
	}
}

func (u User) String() string {
	return fmt.Sprintf("#%d %s %s <%s> [%s]", u.ID, u.MembershipID, u.FullName, u.Email, u.Status())
}

// UserPatch is an admin edit. Nil fields are left untouched by the server.
// When a file is set the patch is sent as multipart, otherwise as JSON.
type UserPatch struct {
	FullName     *string       `json:"full_name,omitempty"`
	Email        *string       `json:"email,omitempty"`
	Phone        *string       `json:"phone,omitempty"`
	IsActive     *bool         `json:"is_active,omitempty"`
	IsBlocked    *bool         `json:"is_blocked,omitempty"`
	Profile      *ProfilePatch `json:"profile,omitempty"`
	ProfilePhoto *LocalFile    `json:"-"`
	Resume       *LocalFile    `json:"-"`
}

// ProfilePatch is the nested profile part of an admin edit.
type ProfilePatch struct {
	DOB       *string `json:"dob,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	Contact   *string `json:"contact,omitempty"`
	Address   *string `json:"address,omitempty"`
	Skills    *string `json:"skills,omitempty"`
	Languages *string `json:"languages,omitempty"`
}

// Set stores value under the scalar field name. It reports false for an
// unknown name.
func (p *ProfilePatch) Set(name, value string) bool {
	v := &value
	switch name {
	case FieldDOB:
		p.DOB = v
	case FieldGender:
		p.Gender = v
	case FieldContact:
		p.Contact = v
	case FieldAddress:
		p.Address = v
	case FieldSkills:
		p.Skills = v
	case FieldLanguages:
		p.Languages = v
	default:
		return false
	}
	return true
}

// ApplyTo copies the set fields onto profile.
func (p *ProfilePatch) ApplyTo(profile *Profile) {
	for name, v := range map[string]*string{
		FieldDOB: p.DOB, FieldGender: p.Gender, FieldContact: p.Contact,
		FieldAddress: p.Address, FieldSkills: p.Skills, FieldLanguages: p.Languages,
	} {
		if v != nil {
			profile.SetScalar(name, *v)
		}
	}
}

func (p *ProfilePatch) IsEmpty() bool {
	return p == nil || p.DOB == nil && p.Gender == nil && p.Contact == nil &&
		p.Address == nil && p.Skills == nil && p.Languages == nil
}

func (p UserPatch) HasFiles() bool {
	return p.ProfilePhoto != nil || p.Resume != nil
}

func (p UserPatch) IsEmpty() bool {
	return p.FullName == nil && p.Email == nil && p.Phone == nil && p.IsActive == nil &&
		p.IsBlocked == nil && p.Profile.IsEmpty() && !p.HasFiles()
}

// DashboardStats are aggregated server-side and shown as-is.
type DashboardStats struct {
	TotalUsers   int `json:"total_users"`
	ActiveUsers  int `json:"active_users"`
	BlockedUsers int `json:"blocked_users"`
	PendingUsers int `json:"pending_users"`
}
