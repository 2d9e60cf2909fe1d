// Package client contains the transport layer of the certification portal
// client.
//
// # Overview
//
// The package provides:
//  1. Gateway: a single HTTP client bound to one base URL. Every request
//     carries the bearer token of the requested role (if one is stored), an
//     X-Request-ID, and is optionally paced by a rate limiter. Bodies are
//     either JSON or multipart (scalar parts, JSON-serialized sub-objects,
//     file parts).
//  2. A transport-agnostic API contract (see the Client interface) covering
//     authentication, profile CRUD, share links and admin user management,
//     with a REST implementation (APIClient) on top of the Gateway.
//
// # Error Handling
//
// Failures are returned as *Error and matched with errors.Is:
//   - ErrUnreachable: no response (network failure, timeout, cancellation)
//   - ErrRejected: any non-2xx response; status and body are kept
//   - ErrForbidden: a 403, which also matches ErrRejected and is logged
//     centrally before being returned
//
// Nothing is retried and no token is refreshed or cleared here; a Forbidden
// response is the only signal that a new login is needed.
//
// Concurrency & Contexts
//
// Gateway and APIClient are safe for concurrent use. All operations accept a
// context.Context and honor cancellation.
package client
