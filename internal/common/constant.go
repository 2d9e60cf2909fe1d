// Package common contains shared constants used across the certification
// portal client components.
package common

// AuthorizationHeaderName carries the bearer token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName carries the per-request correlation identifier.
const RequestIDHeaderName = "X-Request-ID"

// Storage keys for persisted bearer tokens. User and admin sessions are kept
// under distinct keys and are never merged.
const (
	UserTokenKey  = "user_access_token"
	AdminTokenKey = "admin_access_token"
)

// Entry points the client navigates to after a session ends.
const (
	UserEntryPoint  = "/login"
	AdminEntryPoint = "/admin/login"
)
