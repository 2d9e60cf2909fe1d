// Package common defines shared constants and sentinel errors used across
// client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Local validation errors, raised before any request is sent.
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrTermsNotAccepted = errors.New("terms and conditions must be accepted")
	ErrMissingField     = errors.New("required field is empty")
)
