package services

import "errors"

var (
	ErrNotSignedIn   = errors.New("not signed in")
	ErrEmptyToken    = errors.New("server returned no access token")
	ErrLinkExpired   = errors.New("link expired")
	ErrStaleResponse = errors.New("response arrived after the view changed")
	ErrUnknownField  = errors.New("unknown profile field")
	ErrNotLoaded     = errors.New("profile not loaded")
	ErrSubmitting    = errors.New("submission in progress")
	ErrNoFile        = errors.New("no file selected")
	ErrInvalidStatus = errors.New("invalid status filter")
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongView     = errors.New("action not available in the current view")
	ErrInvalidExpiry = errors.New("expiry must be at least one day")
)
