// Package cli provides the interactive command-line client of the
// certification portal.
//
// It wires configuration, the persistent session store, the API client and
// the application services, then runs a REPL. Members register, verify
// their email, sign in, edit and save their profile and create share links.
// Operators sign in to the admin back-office to review dashboard stats,
// search and filter users, open user details, block or unblock accounts and
// edit users.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
