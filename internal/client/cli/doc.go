// Package cli provides the ContactX command-line client.
//
// It wires configuration, the local SQLite store, the API services and two
// front ends over the same App: cobra subcommands for one-shot use and an
// interactive shell started when no subcommand is given.
//
// Failures are reported as toasts through resilience.Guard; commands then
// return ErrReported so the process exits non-zero without printing twice.
package cli
