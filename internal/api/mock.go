package api

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// MockClient is a tiny in-memory backend. It backs the --mock flag (demo
// without a server) and the orchestration tests, which script failures per
// operation and assert on the recorded call order.
type MockClient struct {
	mu       sync.Mutex
	nextID   int
	sessions map[int]Session

	// Calls records every operation in invocation order, e.g.
	// "CreateSession(Biology 101)" or "UploadDocument(3, notes.pdf)".
	Calls []string

	// failures maps an operation name to errors returned (and consumed)
	// on its next invocations.
	failures map[string][]error

	// Canned generation results. When nil, answers are derived from the
	// session's document count.
	ChatFn       func(req ChatRequest) ChatResponse
	FlashcardSet []Flashcard
	SummaryText  string
}

func NewMockClient() *MockClient {
	return &MockClient{
		nextID:   0,
		sessions: make(map[int]Session),
		failures: make(map[string][]error),
	}
}

// FailNext makes the next call to op return err instead of succeeding.
// Repeated calls queue further failures.
func (m *MockClient) FailNext(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = append(m.failures[op], err)
}

// Seed installs a session directly, bypassing the call log.
func (m *MockClient) Seed(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID > m.nextID {
		m.nextID = s.ID
	}
	m.sessions[s.ID] = s
}

func (m *MockClient) record(format string, args ...any) {
	m.Calls = append(m.Calls, fmt.Sprintf(format, args...))
}

func (m *MockClient) fail(op string) error {
	queue := m.failures[op]
	if len(queue) == 0 {
		return nil
	}
	err := queue[0]
	m.failures[op] = queue[1:]
	return err
}

func (m *MockClient) ListSessions(ctx context.Context) ([]Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListSessions()")
	if err := m.fail("ListSessions"); err != nil {
		return nil, err
	}
	out := make([]Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockClient) CreateSession(ctx context.Context, req CreateSessionRequest) (Session, error) {
	if err := req.Validate(); err != nil {
		return Session{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateSession(%s)", req.Name)
	if err := m.fail("CreateSession"); err != nil {
		return Session{}, err
	}
	m.nextID++
	now := time.Now().UTC()
	s := Session{
		ID:          m.nextID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.sessions[s.ID] = s
	return s, nil
}

func (m *MockClient) GetSession(ctx context.Context, id int) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetSession(%d)", id)
	if err := m.fail("GetSession"); err != nil {
		return Session{}, err
	}
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, &StatusError{Code: 404, Detail: "Session not found"}
	}
	return s, nil
}

func (m *MockClient) DeleteSession(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteSession(%d)", id)
	if err := m.fail("DeleteSession"); err != nil {
		return err
	}
	if _, ok := m.sessions[id]; !ok {
		return &StatusError{Code: 404, Detail: "Session not found"}
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockClient) UploadDocument(ctx context.Context, sessionID int, filename string, content io.Reader) (UploadResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UploadDocument(%d, %s)", sessionID, filename)
	if err := m.fail("UploadDocument"); err != nil {
		return UploadResponse{}, err
	}
	s, ok := m.sessions[sessionID]
	if !ok {
		return UploadResponse{}, &StatusError{Code: 404, Detail: "Session not found"}
	}
	s.DocumentCount++
	s.UpdatedAt = time.Now().UTC()
	m.sessions[sessionID] = s
	return UploadResponse{Filename: filename, ChunksProcessed: 12, Status: "success"}, nil
}

func (m *MockClient) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return ChatResponse{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Chat(%d)", req.SessionID)
	if err := m.fail("Chat"); err != nil {
		return ChatResponse{}, err
	}
	if m.ChatFn != nil {
		return m.ChatFn(req), nil
	}
	s := m.sessions[req.SessionID]
	if s.DocumentCount == 0 {
		no := false
		return ChatResponse{
			Reply:       "I don't have any information about that in your uploaded documents. Please upload relevant study materials first.",
			Sources:     []Source{},
			ContextUsed: &no,
		}, nil
	}
	yes := true
	return ChatResponse{
		Reply: fmt.Sprintf("Based on your notes: %s", req.Message),
		Sources: []Source{{
			SourceNumber: 1,
			Filename:     "notes.pdf",
			Similarity:   0.87,
			Preview:      "Lecture notes excerpt...",
		}},
		ContextUsed: &yes,
		NumSources:  1,
	}, nil
}

func (m *MockClient) GenerateFlashcards(ctx context.Context, req ChatRequest) (FlashcardResponse, error) {
	if err := req.Validate(); err != nil {
		return FlashcardResponse{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GenerateFlashcards(%d)", req.SessionID)
	if err := m.fail("GenerateFlashcards"); err != nil {
		return FlashcardResponse{}, err
	}
	if m.FlashcardSet != nil {
		return FlashcardResponse{Flashcards: m.FlashcardSet}, nil
	}
	s := m.sessions[req.SessionID]
	if s.DocumentCount == 0 {
		return FlashcardResponse{Message: "No documents found. Upload study materials first."}, nil
	}
	return FlashcardResponse{Flashcards: []Flashcard{
		{Question: "What is the mitochondria?", Answer: "The powerhouse of the cell."},
		{Question: "What is 2 + 2?", Answer: "4"},
	}}, nil
}

func (m *MockClient) GenerateSummary(ctx context.Context, req ChatRequest) (SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return SummaryResponse{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GenerateSummary(%d)", req.SessionID)
	if err := m.fail("GenerateSummary"); err != nil {
		return SummaryResponse{}, err
	}
	if m.SummaryText != "" {
		return SummaryResponse{Summary: m.SummaryText}, nil
	}
	return SummaryResponse{Summary: "Your documents cover cell biology fundamentals."}, nil
}

var _ StudyAPI = (*MockClient)(nil)
var _ StudyAPI = (*Client)(nil)
