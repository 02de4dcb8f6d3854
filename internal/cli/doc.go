// Package cli provides the interactive spc command-line client.
//
// It wires configuration, the sqlite blob store, the vault service and an
// optional S3 relay into an interactive REPL. Typical flow: create or
// unlock the vault with the master password, then manage entries until
// lock or exit wipes the session.
//
// Key features:
//   - Init / Unlock / Lock
//   - Add, list, show, search, remove entries
//   - Copy passwords to the clipboard with timed clearing
//   - Password generation and strength feedback
//   - Security audit (weak, reused, stale, empty passwords)
//   - CSV and encrypted export, encrypted import
//   - Push/pull of the sealed vault to S3-compatible storage
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
