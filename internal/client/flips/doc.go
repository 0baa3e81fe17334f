// Package flips coordinates the local flip list.
//
// # Overview
//
// An Orchestrator is the root state machine. It receives host facts
// (Initialize: epoch, identity key, known flip hashes) and user intents
// (SetFilter, AddDraft), loads local flips from a Store and supervises one
// FlipActor per local flip. Each FlipActor owns a single flip and runs its
// own machine: Publish, Archive and Delete are sent to the actor directly
// through the FlipView.Ref handed out in snapshots.
//
// Both machines are written the same way: a pure step function
//
//	stepOrchestrator(state, event) -> (state, effects)
//	stepActor(state, command)      -> (state, effects, error)
//
// and a runtime that owns a FIFO mailbox, applies the step under a mutex and
// executes the returned effects. Effects that block (store, network,
// preference writes) run in their own goroutine and report back by posting
// a result event into the same mailbox, so a machine keeps accepting
// commands while an operation is in flight.
//
// # Errors
//
// Failures never change the orchestrator state. They are turned into a
// single Notifier.NotifyError call; per-item failures revert only the
// affected flip.
//
// # Reading state
//
// Snapshot returns an immutable copy of the list; Subscribe delivers a new
// snapshot after every change. Select, Remaining and BuildListView turn a
// snapshot into what the CLI prints.
package flips
