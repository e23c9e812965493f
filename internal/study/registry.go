package study

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"studybuddy/internal/api"
)

// SessionRegistry owns the authoritative in-memory list of sessions. Every
// other component reads session data from here; all cache mutation goes
// through ResolveLoad, ApplyCreated and ResolveDelete on the event loop.
//
// Mutations follow a local cache-update contract: a confirmed create or
// delete is applied to the cache directly, and the registry is treated as
// eventually consistent with the backend rather than refetched on every
// change.
type SessionRegistry struct {
	client api.StudyAPI
	log    *zap.Logger

	sessions []api.Session
	loaded   bool

	loading        bool
	pendingDeletes map[int]bool
}

func NewSessionRegistry(client api.StudyAPI, log *zap.Logger) *SessionRegistry {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionRegistry{
		client:         client,
		log:            log,
		pendingDeletes: make(map[int]bool),
	}
}

// Sessions returns a copy of the cache in backend order.
func (r *SessionRegistry) Sessions() []api.Session {
	out := make([]api.Session, len(r.sessions))
	copy(out, r.sessions)
	return out
}

// Loaded reports whether at least one list fetch has succeeded, which is how
// the UI distinguishes "still loading" from a genuinely empty account.
func (r *SessionRegistry) Loaded() bool { return r.loaded }

func (r *SessionRegistry) Loading() bool { return r.loading }

// Get looks a session up in the cache by id.
func (r *SessionRegistry) Get(id int) (api.Session, bool) {
	for _, s := range r.sessions {
		if s.ID == id {
			return s, true
		}
	}
	return api.Session{}, false
}

// LoadCommand issues a full list fetch. Returns nil while a fetch is already
// in flight.
func (r *SessionRegistry) LoadCommand(ctx context.Context) Command {
	if r.loading {
		return nil
	}
	r.loading = true
	client := r.client
	return func() Event {
		sessions, err := client.ListSessions(ctx)
		return SessionsLoaded{Sessions: sessions, Err: err}
	}
}

// ResolveLoad applies a finished list fetch. On failure the previous cache
// is left untouched and a TransportError is returned; an empty list is a
// valid successful result.
func (r *SessionRegistry) ResolveLoad(ev SessionsLoaded) error {
	r.loading = false
	if ev.Err != nil {
		r.log.Warn("session list fetch failed", zap.Error(ev.Err))
		return &TransportError{Op: "listing sessions", Err: ev.Err}
	}
	sessions := ev.Sessions
	if sessions == nil {
		sessions = []api.Session{}
	}
	r.sessions = sessions
	r.loaded = true
	return nil
}

// CreateSession delegates to the backend without touching the cache; the
// caller applies the result via ApplyCreated once confirmed. It is a plain
// blocking call so the upload workflow can run it inside its own Command.
func (r *SessionRegistry) CreateSession(ctx context.Context, name, description string) (api.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return api.Session{}, &CreationError{Err: ErrEmptyName}
	}
	s, err := r.client.CreateSession(ctx, api.CreateSessionRequest{Name: name, Description: description})
	if err != nil {
		r.log.Warn("session create failed", zap.String("name", name), zap.Error(err))
		return api.Session{}, &CreationError{Err: err}
	}
	return s, nil
}

// ApplyCreated appends a confirmed new session to the cache. Duplicate ids
// are ignored; the backend never reuses them.
func (r *SessionRegistry) ApplyCreated(s api.Session) {
	if _, ok := r.Get(s.ID); ok {
		return
	}
	r.sessions = append(r.sessions, s)
}

// DeleteCommand issues a delete for id. Confirmation is the caller's
// responsibility and must happen before this is called. Returns nil while a
// delete for the same id is in flight.
func (r *SessionRegistry) DeleteCommand(ctx context.Context, id int) Command {
	if r.pendingDeletes[id] {
		return nil
	}
	r.pendingDeletes[id] = true
	client := r.client
	return func() Event {
		return SessionDeleted{ID: id, Err: client.DeleteSession(ctx, id)}
	}
}

// ResolveDelete applies a finished delete. The entry is removed only on
// confirmed success; on failure it stays in the cache, selectable and
// retryable.
func (r *SessionRegistry) ResolveDelete(ev SessionDeleted) error {
	delete(r.pendingDeletes, ev.ID)
	if ev.Err != nil {
		r.log.Warn("session delete failed", zap.Int("id", ev.ID), zap.Error(ev.Err))
		return &TransportError{Op: "deleting session", Err: ev.Err}
	}
	kept := r.sessions[:0]
	for _, s := range r.sessions {
		if s.ID != ev.ID {
			kept = append(kept, s)
		}
	}
	r.sessions = kept
	return nil
}

// Filter returns the cached sessions whose name contains query,
// case-insensitively. No network call; an empty query returns everything.
func (r *SessionRegistry) Filter(query string) []api.Session {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return r.Sessions()
	}
	var out []api.Session
	for _, s := range r.sessions {
		if strings.Contains(strings.ToLower(s.Name), query) {
			out = append(out, s)
		}
	}
	return out
}
