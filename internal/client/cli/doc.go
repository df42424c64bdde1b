// Package cli provides the interactive InGeniuZ command-line client.
//
// It wires configuration, local encrypted storage, the identity provider,
// the audit log and the session into an interactive REPL. Typical flow:
// register once, then log in with a password followed by the email and SMS
// codes the provider sends.
//
// Key features:
//   - Register / Login (two-step) / Logout
//   - whoami and firstlogin against the persisted session
//   - logs: the local audit trail of every authentication event
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, NewApp, and runREPL for details.
package cli
