package api

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Session is a named container for uploaded documents and everything the
// backend derives from them. IDs are server-assigned and never reused.
type Session struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	DocumentCount int       `json:"document_count"`
}

// Source is one document excerpt the backend used to ground a reply.
type Source struct {
	SourceNumber int     `json:"source_number"`
	Filename     string  `json:"filename"`
	Similarity   float64 `json:"similarity"`
	Preview      string  `json:"preview"`
}

type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type CreateSessionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (r CreateSessionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
	)
}

// ChatRequest is the shared payload of the chat, flashcard and summary
// endpoints: a message plus the session scoping the retrieval.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID int    `json:"session_id"`
}

func (r ChatRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Message, validation.Required),
		validation.Field(&r.SessionID, validation.Min(1)),
	)
}

type SessionsResponse struct {
	Sessions []Session `json:"sessions"`
}

type SessionEnvelope struct {
	Session Session `json:"session"`
}

// ChatResponse carries a retrieval-augmented reply. ContextUsed is a pointer
// because the backend historically omitted the field; callers must not read
// absence as "no context" (see study.ChatSession).
type ChatResponse struct {
	Reply       string   `json:"reply"`
	Sources     []Source `json:"sources,omitempty"`
	ContextUsed *bool    `json:"context_used,omitempty"`
	NumSources  int      `json:"num_sources,omitempty"`
}

type FlashcardResponse struct {
	Flashcards []Flashcard `json:"flashcards,omitempty"`
	Message    string      `json:"message,omitempty"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
}

type UploadResponse struct {
	Filename        string `json:"filename"`
	ChunksProcessed int    `json:"chunks_processed"`
	Status          string `json:"status"`
}

// StatusError is a non-2xx response, with whatever detail the backend put in
// the body.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: status %d", e.Code)
	}
	return fmt.Sprintf("api: status %d: %s", e.Code, e.Detail)
}
