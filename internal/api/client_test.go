package api

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api", 5*time.Second, nil)
}

func TestListSessions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/sessions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"sessions":[{"id":3,"name":"Biology 101","document_count":2,
			"created_at":"2026-01-10T09:00:00Z","updated_at":"2026-01-12T09:00:00Z"}]}`)
	})

	sessions, err := c.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 3, sessions[0].ID)
	assert.Equal(t, "Biology 101", sessions[0].Name)
	assert.Equal(t, 2, sessions[0].DocumentCount)
}

func TestListSessions_EmptyIsSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"sessions":[]}`)
	})
	sessions, err := c.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestCreateSession_RejectsEmptyNameWithoutCall(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.CreateSession(context.Background(), CreateSessionRequest{Name: ""})
	require.Error(t, err)
	assert.False(t, called, "validation must fail before any request is issued")
}

func TestCreateSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"Math Finals","description":"Created on 8/28/2026"}`, string(body))
		io.WriteString(w, `{"session":{"id":7,"name":"Math Finals","document_count":0,
			"created_at":"2026-08-28T10:00:00Z","updated_at":"2026-08-28T10:00:00Z"}}`)
	})

	s, err := c.CreateSession(context.Background(), CreateSessionRequest{
		Name:        "Math Finals",
		Description: "Created on 8/28/2026",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, s.ID)
}

func TestDeleteSession_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail":"Session not found"}`)
	})

	err := c.DeleteSession(context.Background(), 99)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, "Session not found", se.Detail)
}

func TestUploadDocument_MultipartShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/study/upload", r.URL.Path)
		require.Equal(t, "5", r.URL.Query().Get("session_id"))

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		require.Equal(t, "multipart/form-data", mediaType)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "notes.pdf", header.Filename)
		content, _ := io.ReadAll(file)
		assert.Equal(t, "%PDF-1.4 fake", string(content))

		io.WriteString(w, `{"filename":"notes.pdf","chunks_processed":12,"status":"success"}`)
	})

	out, err := c.UploadDocument(context.Background(), 5, "notes.pdf", strings.NewReader("%PDF-1.4 fake"))
	require.NoError(t, err)
	assert.Equal(t, 12, out.ChunksProcessed)
	assert.Equal(t, "success", out.Status)
}

func TestChat_ContextUsedAbsentStaysNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"reply":"An answer."}`)
	})

	resp, err := c.Chat(context.Background(), ChatRequest{Message: "What is mitosis?", SessionID: 1})
	require.NoError(t, err)
	assert.Equal(t, "An answer.", resp.Reply)
	assert.Nil(t, resp.ContextUsed, "absent field must stay observable as nil")
	assert.Empty(t, resp.Sources)
}

func TestChat_TransportError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", time.Second, nil)
	_, err := c.Chat(context.Background(), ChatRequest{Message: "hi", SessionID: 1})
	require.Error(t, err)
	var se *StatusError
	assert.False(t, errors.As(err, &se), "connection failures are not status errors")
}

func TestGenerateFlashcards_EmptyWithMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"flashcards":[],"message":"No documents found. Upload study materials first."}`)
	})

	resp, err := c.GenerateFlashcards(context.Background(), ChatRequest{Message: "generate", SessionID: 2})
	require.NoError(t, err)
	assert.Empty(t, resp.Flashcards)
	assert.NotEmpty(t, resp.Message)
}

func TestGenerateSummary(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/study/summary", r.URL.Path)
		io.WriteString(w, `{"summary":"Cells divide by mitosis."}`)
	})

	resp, err := c.GenerateSummary(context.Background(), ChatRequest{Message: "Summarize all my uploaded documents", SessionID: 2})
	require.NoError(t, err)
	assert.Equal(t, "Cells divide by mitosis.", resp.Summary)
}

func TestErrorDetail_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"fastapi detail", `{"detail":"Only PDF files are supported currently."}`, "Only PDF files are supported currently."},
		{"message field", `{"message":"boom"}`, "boom"},
		{"error field", `{"error":"bad gateway"}`, "bad gateway"},
		{"plain text", `upstream timeout`, "upstream timeout"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errorDetail([]byte(tc.body)))
		})
	}
}
