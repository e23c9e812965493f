package study

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"studybuddy/internal/api"
)

// UploadState is the phase of an UploadWorkflow.
type UploadState int

const (
	// StateNaming accepts a session name.
	StateNaming UploadState = iota
	// StateAwaitingFiles accumulates PDF candidates.
	StateAwaitingFiles
	// StateUploading means the create call is in flight or uploads are.
	StateUploading
	// StateComplete means the session exists; the id is ready to emit.
	StateComplete
	// StateAborted means the user cancelled before anything was sent.
	StateAborted
)

func (s UploadState) String() string {
	switch s {
	case StateNaming:
		return "naming"
	case StateAwaitingFiles:
		return "awaiting-files"
	case StateUploading:
		return "uploading"
	case StateComplete:
		return "complete"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// UploadCandidate is a locally held, not-yet-persisted file reference. It
// exists only inside an in-progress workflow and is discarded with it.
type UploadCandidate struct {
	ID   string
	Path string
	Name string
}

// UploadOutcome is the per-file result reported on the completion screen.
type UploadOutcome struct {
	Filename string
	Chunks   int
	Err      error
}

// SessionCreator is the create delegate; *SessionRegistry implements it.
type SessionCreator interface {
	CreateSession(ctx context.Context, name, description string) (api.Session, error)
}

// UploadWorkflow sequences session creation and document upload:
// naming -> awaiting files -> uploading -> complete. The create call happens
// exactly once and no upload is issued until it has returned a valid id.
// File uploads are independent of each other; a failed file is reported but
// never fails the workflow once the session exists.
type UploadWorkflow struct {
	creator SessionCreator
	client  api.StudyAPI
	log     *zap.Logger

	state      UploadState
	name       string
	candidates []UploadCandidate

	session     api.Session
	outstanding int
	outcomes    []UploadOutcome
	lastErr     error
	emitted     bool
}

func NewUploadWorkflow(creator SessionCreator, client api.StudyAPI, log *zap.Logger) *UploadWorkflow {
	if log == nil {
		log = zap.NewNop()
	}
	return &UploadWorkflow{
		creator: creator,
		client:  client,
		log:     log,
		state:   StateNaming,
	}
}

func (w *UploadWorkflow) State() UploadState { return w.state }
func (w *UploadWorkflow) Name() string       { return w.name }
func (w *UploadWorkflow) SetName(name string) {
	if w.state == StateNaming {
		w.name = name
	}
}

// Err returns the most recent surfaced error, cleared on the next
// transition attempt.
func (w *UploadWorkflow) Err() error { return w.lastErr }

// ConfirmName advances to file selection. Blank or whitespace-only names
// are rejected.
func (w *UploadWorkflow) ConfirmName() error {
	if w.state != StateNaming {
		return nil
	}
	if strings.TrimSpace(w.name) == "" {
		return ErrEmptyName
	}
	w.lastErr = nil
	w.state = StateAwaitingFiles
	return nil
}

// Rename steps back from file selection to naming, keeping the candidates.
func (w *UploadWorkflow) Rename() {
	if w.state == StateAwaitingFiles {
		w.state = StateNaming
	}
}

// AddFile registers a candidate. Non-PDF files are rejected here, at
// acceptance, not silently dropped later.
func (w *UploadWorkflow) AddFile(path string) error {
	if w.state != StateAwaitingFiles {
		return nil
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return ErrNotPDF
	}
	w.candidates = append(w.candidates, UploadCandidate{
		ID:   uuid.NewString(),
		Path: path,
		Name: filepath.Base(path),
	})
	return nil
}

func (w *UploadWorkflow) Candidates() []UploadCandidate {
	out := make([]UploadCandidate, len(w.candidates))
	copy(out, w.candidates)
	return out
}

func (w *UploadWorkflow) RemoveFile(i int) {
	if w.state != StateAwaitingFiles || i < 0 || i >= len(w.candidates) {
		return
	}
	w.candidates = append(w.candidates[:i], w.candidates[i+1:]...)
}

// Cancel abandons the workflow. Legal only before the create call has been
// issued; once uploading, the workflow runs to completion.
func (w *UploadWorkflow) Cancel() bool {
	if w.state != StateNaming && w.state != StateAwaitingFiles {
		return false
	}
	w.state = StateAborted
	w.candidates = nil
	return true
}

// Begin moves to uploading and returns the single create command. It
// requires at least one candidate so a session is never created empty by
// accident.
func (w *UploadWorkflow) Begin(ctx context.Context) (Command, error) {
	if w.state != StateAwaitingFiles {
		return nil, nil
	}
	if len(w.candidates) == 0 {
		return nil, ErrNoFiles
	}
	w.lastErr = nil
	w.state = StateUploading

	creator := w.creator
	name := w.name
	description := "Created on " + time.Now().Format("1/2/2006")
	return func() Event {
		s, err := creator.CreateSession(ctx, name, description)
		return SessionCreated{Session: s, Err: err}
	}, nil
}

// ResolveCreate applies the create result. On failure the workflow returns
// to file selection with the error surfaced and zero upload commands; no
// partial state is retained. On success it records the session and returns
// one independent upload command per candidate.
func (w *UploadWorkflow) ResolveCreate(ctx context.Context, ev SessionCreated) []Command {
	if w.state != StateUploading {
		return nil
	}
	if ev.Err != nil {
		w.log.Warn("session create failed", zap.String("name", w.name), zap.Error(ev.Err))
		w.lastErr = ev.Err
		w.state = StateAwaitingFiles
		return nil
	}

	w.session = ev.Session
	w.outstanding = len(w.candidates)

	cmds := make([]Command, 0, len(w.candidates))
	for _, cand := range w.candidates {
		cmds = append(cmds, w.uploadCommand(ctx, cand))
	}
	return cmds
}

func (w *UploadWorkflow) uploadCommand(ctx context.Context, cand UploadCandidate) Command {
	client := w.client
	sessionID := w.session.ID
	return func() Event {
		f, err := os.Open(cand.Path)
		if err != nil {
			return DocumentUploaded{Filename: cand.Name, Err: err}
		}
		defer f.Close()
		resp, err := client.UploadDocument(ctx, sessionID, cand.Name, f)
		return DocumentUploaded{Filename: cand.Name, Result: resp, Err: err}
	}
}

// ResolveUpload records one file's outcome. When the last outstanding upload
// lands the workflow is Complete regardless of individual failures.
func (w *UploadWorkflow) ResolveUpload(ev DocumentUploaded) {
	if w.state != StateUploading {
		return
	}
	out := UploadOutcome{Filename: ev.Filename, Chunks: ev.Result.ChunksProcessed, Err: ev.Err}
	if ev.Err != nil {
		w.log.Warn("document upload failed",
			zap.Int("session_id", w.session.ID),
			zap.String("filename", ev.Filename),
			zap.Error(ev.Err))
	}
	w.outcomes = append(w.outcomes, out)
	w.outstanding--
	if w.outstanding <= 0 {
		w.state = StateComplete
	}
}

// Outcomes reports per-file results, in arrival order.
func (w *UploadWorkflow) Outcomes() []UploadOutcome {
	out := make([]UploadOutcome, len(w.outcomes))
	copy(out, w.outcomes)
	return out
}

// FailedFiles returns the outcomes that carry an error.
func (w *UploadWorkflow) FailedFiles() []UploadOutcome {
	var out []UploadOutcome
	for _, o := range w.outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Session returns the created session once the workflow is past creation.
func (w *UploadWorkflow) Session() api.Session { return w.session }

// TakeSessionID emits the created id exactly once. Later calls report
// not-ok so the caller cannot double-redirect.
func (w *UploadWorkflow) TakeSessionID() (int, bool) {
	if w.state != StateComplete || w.emitted {
		return 0, false
	}
	w.emitted = true
	return w.session.ID, true
}
