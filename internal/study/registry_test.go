package study

import (
	"context"
	"errors"
	"testing"

	"studybuddy/internal/api"
)

func loadedRegistry(t *testing.T, client *api.MockClient) *SessionRegistry {
	t.Helper()
	r := NewSessionRegistry(client, nil)
	cmd := r.LoadCommand(context.Background())
	if cmd == nil {
		t.Fatal("LoadCommand returned nil")
	}
	if err := r.ResolveLoad(cmd().(SessionsLoaded)); err != nil {
		t.Fatalf("ResolveLoad returned error: %v", err)
	}
	return r
}

func TestSessionRegistry_LoadReplacesCache(t *testing.T) {
	client := api.NewMockClient()
	client.Seed(api.Session{ID: 1, Name: "Biology 101"})
	client.Seed(api.Session{ID: 2, Name: "Math Finals"})

	r := loadedRegistry(t, client)
	if got := len(r.Sessions()); got != 2 {
		t.Fatalf("cache size = %d, want 2", got)
	}
	if !r.Loaded() {
		t.Fatal("Loaded() = false after a successful fetch")
	}
}

func TestSessionRegistry_EmptyListIsSuccess(t *testing.T) {
	r := loadedRegistry(t, api.NewMockClient())
	if got := r.Sessions(); got == nil || len(got) != 0 {
		t.Fatalf("Sessions() = %v, want empty non-nil", got)
	}
	if !r.Loaded() {
		t.Fatal("an empty list must still count as loaded")
	}
}

func TestSessionRegistry_LoadFailureKeepsCache(t *testing.T) {
	client := api.NewMockClient()
	client.Seed(api.Session{ID: 1, Name: "Biology 101"})
	r := loadedRegistry(t, client)

	client.FailNext("ListSessions", errors.New("backend down"))
	cmd := r.LoadCommand(context.Background())
	err := r.ResolveLoad(cmd().(SessionsLoaded))

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("ResolveLoad error = %v, want TransportError", err)
	}
	if got := len(r.Sessions()); got != 1 {
		t.Fatalf("cache size after failed fetch = %d, want prior 1", got)
	}
}

func TestSessionRegistry_LoadSingleFlight(t *testing.T) {
	r := NewSessionRegistry(api.NewMockClient(), nil)
	if r.LoadCommand(context.Background()) == nil {
		t.Fatal("first LoadCommand returned nil")
	}
	if r.LoadCommand(context.Background()) != nil {
		t.Fatal("LoadCommand while in flight returned a command; want nil")
	}
}

func TestSessionRegistry_CreateDoesNotMutateCache(t *testing.T) {
	client := api.NewMockClient()
	r := loadedRegistry(t, client)

	s, err := r.CreateSession(context.Background(), "History Notes", "")
	if err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}
	if got := len(r.Sessions()); got != 0 {
		t.Fatalf("cache mutated by CreateSession: %d entries", got)
	}

	r.ApplyCreated(s)
	if got := len(r.Sessions()); got != 1 {
		t.Fatalf("cache size after ApplyCreated = %d, want 1", got)
	}
	r.ApplyCreated(s) // ids are never reused; a duplicate apply is ignored
	if got := len(r.Sessions()); got != 1 {
		t.Fatalf("duplicate ApplyCreated grew the cache to %d", got)
	}
}

func TestSessionRegistry_CreateRejectsEmptyName(t *testing.T) {
	client := api.NewMockClient()
	r := NewSessionRegistry(client, nil)

	_, err := r.CreateSession(context.Background(), "   ", "")
	var ce *CreationError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want CreationError", err)
	}
	if !errors.Is(err, ErrEmptyName) {
		t.Fatalf("error = %v, want to wrap ErrEmptyName", err)
	}
	if len(client.Calls) != 0 {
		t.Fatalf("network calls issued for empty name: %v", client.Calls)
	}
}

func TestSessionRegistry_CreateMapsBackendFailure(t *testing.T) {
	client := api.NewMockClient()
	client.FailNext("CreateSession", &api.StatusError{Code: 500, Detail: "insert failed"})
	r := NewSessionRegistry(client, nil)

	_, err := r.CreateSession(context.Background(), "Biology 101", "")
	var ce *CreationError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want CreationError", err)
	}
}

func TestSessionRegistry_DeleteFailureKeepsEntry(t *testing.T) {
	client := api.NewMockClient()
	client.Seed(api.Session{ID: 7, Name: "Biology 101"})
	r := loadedRegistry(t, client)

	client.FailNext("DeleteSession", errors.New("backend down"))
	cmd := r.DeleteCommand(context.Background(), 7)
	err := r.ResolveDelete(cmd().(SessionDeleted))
	if err == nil {
		t.Fatal("ResolveDelete returned nil for a failed delete")
	}
	if _, ok := r.Get(7); !ok {
		t.Fatal("failed delete removed the entry from the cache")
	}

	// The entry must still be deletable on retry.
	cmd = r.DeleteCommand(context.Background(), 7)
	if cmd == nil {
		t.Fatal("retry DeleteCommand returned nil")
	}
	if err := r.ResolveDelete(cmd().(SessionDeleted)); err != nil {
		t.Fatalf("retry delete failed: %v", err)
	}
	if _, ok := r.Get(7); ok {
		t.Fatal("confirmed delete left the entry in the cache")
	}
}

func TestSessionRegistry_DeleteSingleFlightPerID(t *testing.T) {
	client := api.NewMockClient()
	client.Seed(api.Session{ID: 1, Name: "A"})
	client.Seed(api.Session{ID: 2, Name: "B"})
	r := loadedRegistry(t, client)

	if r.DeleteCommand(context.Background(), 1) == nil {
		t.Fatal("first DeleteCommand(1) returned nil")
	}
	if r.DeleteCommand(context.Background(), 1) != nil {
		t.Fatal("concurrent DeleteCommand(1) returned a command; want nil")
	}
	// A different id is an independent entity.
	if r.DeleteCommand(context.Background(), 2) == nil {
		t.Fatal("DeleteCommand(2) returned nil while 1 was in flight")
	}
}

func TestSessionRegistry_Filter(t *testing.T) {
	client := api.NewMockClient()
	client.Seed(api.Session{ID: 1, Name: "Biology 101"})
	client.Seed(api.Session{ID: 2, Name: "Math Finals"})
	client.Seed(api.Session{ID: 3, Name: "marine biology"})
	r := loadedRegistry(t, client)

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"biology", 2},
		{"BIOLOGY", 2},
		{"math", 1},
		{"chemistry", 0},
		{"  101  ", 1},
	}
	for _, tc := range tests {
		if got := len(r.Filter(tc.query)); got != tc.want {
			t.Fatalf("Filter(%q) = %d sessions, want %d", tc.query, got, tc.want)
		}
	}
	// Filtering never issues a network call.
	calls := len(client.Calls)
	r.Filter("biology")
	if len(client.Calls) != calls {
		t.Fatal("Filter issued a network call")
	}
}
