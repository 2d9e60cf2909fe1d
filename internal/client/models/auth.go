package models

import (
	"strings"

	"github.com/dmitrijs2005/socrp/internal/common"
)

// Credentials are sent to both the user and the admin login endpoints.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Tokens is the login response. Refresh is returned by the user login only.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// Registration is the sign-up form.
type Registration struct {
	FullName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	ProfilePhoto    *LocalFile
	Resume          *LocalFile
	AcceptedTerms   bool
}

// Validate runs the checks done before anything is sent.
func (r *Registration) Validate() error {
	if !r.AcceptedTerms {
		return common.ErrTermsNotAccepted
	}
	for _, v := range []string{r.FullName, r.Email, r.Phone, r.Password} {
		if strings.TrimSpace(v) == "" {
			return common.ErrMissingField
		}
	}
	if r.Password != r.ConfirmPassword {
		return common.ErrPasswordMismatch
	}
	return nil
}

// Message covers the single-message bodies the API answers with:
// {"msg": ...}, {"message": ...} and {"error": ...}.
type Message struct {
	Msg     string `json:"msg,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Text returns whichever field is set.
func (m Message) Text() string {
	switch {
	case m.Msg != "":
		return m.Msg
	case m.Message != "":
		return m.Message
	default:
		return m.Error
	}
}

// ShareLink is a time-limited public URL to a read-only profile view.
type ShareLink struct {
	URL        string `json:"share_url"`
	ExpiryDays int    `json:"-"`
}
