// Package cli provides the interactive orgbook command-line client.
//
// It wires configuration and the REST API client into a REPL. Reads are
// public; creating, changing and deleting companies, and changing or deleting
// users, need a prior login.
//
// Key features:
//   - Login / Logout
//   - List, search and show companies and users
//   - Add companies, register users with an avatar image
//   - Replace a user's avatar
//   - Trash, restore or erase records
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the command set.
package cli
