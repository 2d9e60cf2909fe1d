// Package session keeps the bearer tokens of the two client roles.
//
// A token is stored per Role under a role-specific key and is never merged
// with the other role's token. The store tracks no expiry: the server is the
// sole authority on validity, and only an explicit Clear (logout) removes a
// token. A Forbidden response from the API does not touch the store.
//
// Implementations:
//   - SQLiteStore: durable, survives restarts; schema via embedded goose
//     migrations.
//   - MemoryStore: process-local, used as a test double.
package session
