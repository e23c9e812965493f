package study

import (
	"errors"
	"fmt"
)

// Validation failures are raised before any network call is issued.
var (
	ErrEmptyName    = errors.New("session name must not be empty")
	ErrEmptyMessage = errors.New("message must not be empty")
	ErrNotPDF       = errors.New("only PDF files are supported")
	ErrNoFiles      = errors.New("add at least one file before uploading")
)

// TransportError wraps a failed round-trip (unreachable backend or non-2xx).
// The prior local state is always preserved when one of these is surfaced.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// CreationError is a rejected or failed session create.
type CreationError struct {
	Err error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("could not create session: %v", e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

// EmptyResultError is a successful call with a semantically empty outcome,
// such as a flashcard generation that produced zero cards. Notice carries
// the guidance shown to the user.
type EmptyResultError struct {
	Notice string
}

func (e *EmptyResultError) Error() string { return e.Notice }
