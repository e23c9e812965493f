// Package study holds the session and workflow orchestration for the
// terminal client: the session registry, the create-and-upload workflow,
// chat transcripts, flashcard decks and summaries. It owns all invariants
// around sequencing and partial failure; it knows nothing about rendering.
//
// Components run on a single cooperative event loop. Methods that need the
// network do not block: they mutate local state synchronously and return a
// Command, a closure the caller executes off the loop (the TUI wraps it in a
// tea.Cmd). The resulting Event is fed back into the owning component's
// Resolve method on the loop, so every state mutation stays single-threaded.
package study

// Event is the result of a completed Command, routed back to the component
// that issued it.
type Event interface {
	studyEvent()
}

// Command is deferred work, typically one network round-trip. A nil Command
// means there is nothing to do (for example a send attempted while one is
// already in flight).
type Command func() Event
