// Package cli provides the interactive flipkeeper command-line client.
//
// It wires configuration, the local database, the node client and the flip
// list, then runs a REPL. Typical flow: unlock (or create) the identity key,
// sign in to the node, start the host watcher and execute user commands.
//
// Commands:
//   - login, import, forget: identity key management
//   - list, filter: show the flip list
//   - new, publish, archive, delete, remove, export: work with single flips
//   - status, help, exit
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
