package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"studybuddy/internal/api"
	"studybuddy/internal/app"
	"studybuddy/internal/study"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func testModel(t *testing.T) (Model, *api.MockClient) {
	t.Helper()
	client := api.NewMockClient()
	client.Seed(api.Session{ID: 5, Name: "Biology 101", DocumentCount: 2})

	a := &app.Application{
		Config:   app.Config{UserName: "Student", Theme: "paper"},
		Logger:   zap.NewNop(),
		Client:   client,
		Registry: study.NewSessionRegistry(client, nil),
		View:     study.NewStudySessionView(client, nil),
	}
	m := NewModel(a)

	load := a.Registry.LoadCommand(context.Background())
	if err := a.Registry.ResolveLoad(load().(study.SessionsLoaded)); err != nil {
		t.Fatal(err)
	}
	m.refreshSessionList()
	client.Calls = nil
	return m, client
}

func TestConfirmOverlay_DeclineIssuesNoDelete(t *testing.T) {
	m, client := testModel(t)
	m.confirmID = 5
	m.confirmName = "Biology 101"

	next, cmd := m.handleKey(keyRune('n'))
	nm := next.(Model)

	if cmd != nil {
		t.Fatal("declining the confirmation produced a command")
	}
	if nm.confirmID != 0 {
		t.Fatal("overlay still up after decline")
	}
	for _, call := range client.Calls {
		if strings.HasPrefix(call, "DeleteSession") {
			t.Fatalf("DELETE issued on a declined confirmation: %v", client.Calls)
		}
	}
	if _, ok := nm.app.Registry.Get(5); !ok {
		t.Fatal("session removed from the registry without confirmation")
	}
}

func TestConfirmOverlay_AcceptDeletes(t *testing.T) {
	m, client := testModel(t)
	m.confirmID = 5
	m.confirmName = "Biology 101"

	next, cmd := m.handleKey(keyRune('y'))
	nm := next.(Model)
	if cmd == nil {
		t.Fatal("confirming produced no delete command")
	}

	msg := cmd()
	after, _ := nm.Update(msg)
	nm = after.(Model)

	found := false
	for _, call := range client.Calls {
		if strings.HasPrefix(call, "DeleteSession") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no DeleteSession call recorded: %v", client.Calls)
	}
	if _, ok := nm.app.Registry.Get(5); ok {
		t.Fatal("session still in the registry after a confirmed delete")
	}
}
