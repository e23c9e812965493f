package study

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"studybuddy/internal/api"
)

func writePDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newWorkflow(client *api.MockClient) (*UploadWorkflow, *SessionRegistry) {
	r := NewSessionRegistry(client, nil)
	return NewUploadWorkflow(r, client, nil), r
}

// runWorkflow drives a named workflow with the given files through to
// completion, the way the TUI wizard does.
func runWorkflow(t *testing.T, w *UploadWorkflow, name string, paths ...string) {
	t.Helper()
	w.SetName(name)
	if err := w.ConfirmName(); err != nil {
		t.Fatalf("ConfirmName: %v", err)
	}
	for _, p := range paths {
		if err := w.AddFile(p); err != nil {
			t.Fatalf("AddFile(%s): %v", p, err)
		}
	}
	cmd, err := w.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	uploads := w.ResolveCreate(context.Background(), cmd().(SessionCreated))
	for _, up := range uploads {
		w.ResolveUpload(up().(DocumentUploaded))
	}
}

func TestUploadWorkflow_NameGatesFileStep(t *testing.T) {
	w, _ := newWorkflow(api.NewMockClient())

	for _, name := range []string{"", "   ", "\t"} {
		w.SetName(name)
		if err := w.ConfirmName(); !errors.Is(err, ErrEmptyName) {
			t.Fatalf("ConfirmName with name %q: error = %v, want ErrEmptyName", name, err)
		}
		if w.State() != StateNaming {
			t.Fatalf("state advanced to %v on a blank name", w.State())
		}
	}

	w.SetName("Biology 101")
	if err := w.ConfirmName(); err != nil {
		t.Fatalf("ConfirmName: %v", err)
	}
	if w.State() != StateAwaitingFiles {
		t.Fatalf("state = %v, want awaiting-files", w.State())
	}
}

func TestUploadWorkflow_RejectsNonPDF(t *testing.T) {
	w, _ := newWorkflow(api.NewMockClient())
	w.SetName("S")
	_ = w.ConfirmName()

	if err := w.AddFile("/tmp/essay.docx"); !errors.Is(err, ErrNotPDF) {
		t.Fatalf("AddFile(docx) error = %v, want ErrNotPDF", err)
	}
	if err := w.AddFile("/tmp/notes.PDF"); err != nil {
		t.Fatalf("AddFile with uppercase extension rejected: %v", err)
	}
	if got := len(w.Candidates()); got != 1 {
		t.Fatalf("candidates = %d, want 1", got)
	}
}

func TestUploadWorkflow_RemoveCandidate(t *testing.T) {
	w, _ := newWorkflow(api.NewMockClient())
	w.SetName("S")
	_ = w.ConfirmName()
	_ = w.AddFile("/tmp/a.pdf")
	_ = w.AddFile("/tmp/b.pdf")

	w.RemoveFile(0)
	cands := w.Candidates()
	if len(cands) != 1 || cands[0].Name != "b.pdf" {
		t.Fatalf("candidates after removal = %+v, want just b.pdf", cands)
	}
	w.RemoveFile(5) // out of range is ignored
	if len(w.Candidates()) != 1 {
		t.Fatal("out-of-range removal changed the candidate list")
	}
}

func TestUploadWorkflow_BeginRequiresCandidates(t *testing.T) {
	w, _ := newWorkflow(api.NewMockClient())
	w.SetName("S")
	_ = w.ConfirmName()

	cmd, err := w.Begin(context.Background())
	if !errors.Is(err, ErrNoFiles) {
		t.Fatalf("Begin with no candidates: error = %v, want ErrNoFiles", err)
	}
	if cmd != nil {
		t.Fatal("Begin with no candidates returned a command")
	}
	if w.State() != StateAwaitingFiles {
		t.Fatalf("state = %v, want awaiting-files", w.State())
	}
}

func TestUploadWorkflow_NoUploadBeforeCreate(t *testing.T) {
	client := api.NewMockClient()
	w, _ := newWorkflow(client)
	w.SetName("Biology 101")
	_ = w.ConfirmName()
	_ = w.AddFile(writePDF(t, "notes.pdf"))

	cmd, err := w.Begin(context.Background())
	if err != nil || cmd == nil {
		t.Fatalf("Begin: cmd=%v err=%v", cmd, err)
	}

	// Nothing has touched the network until the create command runs.
	if len(client.Calls) != 0 {
		t.Fatalf("calls before create command ran: %v", client.Calls)
	}
	ev := cmd().(SessionCreated)
	if len(client.Calls) != 1 || !strings.HasPrefix(client.Calls[0], "CreateSession") {
		t.Fatalf("first call = %v, want a single CreateSession", client.Calls)
	}

	uploads := w.ResolveCreate(context.Background(), ev)
	if len(uploads) != 1 {
		t.Fatalf("upload commands = %d, want 1", len(uploads))
	}
	w.ResolveUpload(uploads[0]().(DocumentUploaded))

	if !strings.HasPrefix(client.Calls[1], "UploadDocument") {
		t.Fatalf("second call = %q, want UploadDocument after create", client.Calls[1])
	}
}

func TestUploadWorkflow_CreateFailureIssuesZeroUploads(t *testing.T) {
	client := api.NewMockClient()
	client.FailNext("CreateSession", errors.New("backend down"))
	w, _ := newWorkflow(client)
	w.SetName("Biology 101")
	_ = w.ConfirmName()
	_ = w.AddFile(writePDF(t, "notes.pdf"))

	cmd, _ := w.Begin(context.Background())
	uploads := w.ResolveCreate(context.Background(), cmd().(SessionCreated))

	if len(uploads) != 0 {
		t.Fatalf("upload commands after failed create = %d, want 0", len(uploads))
	}
	if w.State() != StateAwaitingFiles {
		t.Fatalf("state = %v, want awaiting-files for retry", w.State())
	}
	if w.Err() == nil {
		t.Fatal("no error surfaced after failed create")
	}
	for _, call := range client.Calls {
		if strings.HasPrefix(call, "UploadDocument") {
			t.Fatalf("upload call issued despite failed create: %v", client.Calls)
		}
	}
	// Candidates survive for the retry.
	if len(w.Candidates()) != 1 {
		t.Fatal("candidates lost after failed create")
	}
}

func TestUploadWorkflow_CompletesDespiteFileFailure(t *testing.T) {
	client := api.NewMockClient()
	w, _ := newWorkflow(client)
	good := writePDF(t, "notes.pdf")
	missing := filepath.Join(t.TempDir(), "ghost.pdf") // never written

	w.SetName("Biology 101")
	_ = w.ConfirmName()
	_ = w.AddFile(good)
	_ = w.AddFile(missing)

	cmd, _ := w.Begin(context.Background())
	uploads := w.ResolveCreate(context.Background(), cmd().(SessionCreated))
	if len(uploads) != 2 {
		t.Fatalf("upload commands = %d, want 2", len(uploads))
	}
	for _, up := range uploads {
		w.ResolveUpload(up().(DocumentUploaded))
	}

	if w.State() != StateComplete {
		t.Fatalf("state = %v, want complete despite one failed file", w.State())
	}
	failed := w.FailedFiles()
	if len(failed) != 1 || failed[0].Filename != "ghost.pdf" {
		t.Fatalf("failed files = %+v, want just ghost.pdf", failed)
	}
	// The good file made it through independently.
	s, err := client.GetSession(context.Background(), w.Session().ID)
	if err != nil {
		t.Fatal(err)
	}
	if s.DocumentCount != 1 {
		t.Fatalf("document count = %d, want 1", s.DocumentCount)
	}
}

func TestUploadWorkflow_SessionIDEmittedOnce(t *testing.T) {
	client := api.NewMockClient()
	w, _ := newWorkflow(client)
	runWorkflow(t, w, "Biology 101", writePDF(t, "notes.pdf"))

	id, ok := w.TakeSessionID()
	if !ok || id == 0 {
		t.Fatalf("TakeSessionID = (%d, %v), want a valid id", id, ok)
	}
	if _, ok := w.TakeSessionID(); ok {
		t.Fatal("second TakeSessionID reported ok; emission must be one-shot")
	}
}

func TestUploadWorkflow_CancelRules(t *testing.T) {
	client := api.NewMockClient()

	w, _ := newWorkflow(client)
	if !w.Cancel() {
		t.Fatal("cancel refused in naming state")
	}
	if w.State() != StateAborted {
		t.Fatalf("state = %v, want aborted", w.State())
	}

	w, _ = newWorkflow(client)
	w.SetName("S")
	_ = w.ConfirmName()
	_ = w.AddFile(writePDF(t, "a.pdf"))
	if _, err := w.Begin(context.Background()); err != nil {
		t.Fatal(err)
	}
	if w.Cancel() {
		t.Fatal("cancel allowed while uploading")
	}
}

func TestUploadWorkflow_Scenario_Biology101(t *testing.T) {
	client := api.NewMockClient()
	w, r := newWorkflow(client)
	runWorkflow(t, w, "Biology 101", writePDF(t, "notes.pdf"))

	if w.State() != StateComplete {
		t.Fatalf("state = %v, want complete", w.State())
	}
	id, ok := w.TakeSessionID()
	if !ok {
		t.Fatal("no session id emitted")
	}

	load := r.LoadCommand(context.Background())
	if err := r.ResolveLoad(load().(SessionsLoaded)); err != nil {
		t.Fatal(err)
	}
	s, found := r.Get(id)
	if !found {
		t.Fatalf("session %d missing from the registry after upload", id)
	}
	if s.Name != "Biology 101" {
		t.Fatalf("session name = %q, want Biology 101", s.Name)
	}
	if s.DocumentCount < 1 {
		t.Fatalf("document count = %d, want >= 1", s.DocumentCount)
	}
}
