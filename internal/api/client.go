package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// StudyAPI is the backend surface the orchestration layer depends on.
// Client implements it against HTTP; MockClient implements it in memory.
type StudyAPI interface {
	ListSessions(ctx context.Context) ([]Session, error)
	CreateSession(ctx context.Context, req CreateSessionRequest) (Session, error)
	GetSession(ctx context.Context, id int) (Session, error)
	DeleteSession(ctx context.Context, id int) error
	UploadDocument(ctx context.Context, sessionID int, filename string, content io.Reader) (UploadResponse, error)
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
	GenerateFlashcards(ctx context.Context, req ChatRequest) (FlashcardResponse, error)
	GenerateSummary(ctx context.Context, req ChatRequest) (SummaryResponse, error)
}

// Client talks to the study backend under a base URL such as
// "http://localhost:8000/api". All payloads are JSON except document upload,
// which is multipart form data.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	log *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	var out SessionsResponse
	if err := c.do(ctx, http.MethodGet, "/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

func (c *Client) CreateSession(ctx context.Context, req CreateSessionRequest) (Session, error) {
	if err := req.Validate(); err != nil {
		return Session{}, err
	}
	var out SessionEnvelope
	if err := c.do(ctx, http.MethodPost, "/sessions", req, &out); err != nil {
		return Session{}, err
	}
	return out.Session, nil
}

func (c *Client) GetSession(ctx context.Context, id int) (Session, error) {
	var out SessionEnvelope
	if err := c.do(ctx, http.MethodGet, "/sessions/"+strconv.Itoa(id), nil, &out); err != nil {
		return Session{}, err
	}
	return out.Session, nil
}

func (c *Client) DeleteSession(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/sessions/"+strconv.Itoa(id), nil, nil)
}

// UploadDocument posts one PDF as the multipart form field "file". The
// session is addressed by query parameter, matching the backend route.
func (c *Client) UploadDocument(ctx context.Context, sessionID int, filename string, content io.Reader) (UploadResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return UploadResponse{}, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return UploadResponse{}, err
	}
	if err := mw.Close(); err != nil {
		return UploadResponse{}, err
	}

	url := fmt.Sprintf("%s/study/upload?session_id=%d", c.BaseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return UploadResponse{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out UploadResponse
	if err := c.send(req, &out); err != nil {
		return UploadResponse{}, err
	}
	return out, nil
}

func (c *Client) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return ChatResponse{}, err
	}
	var out ChatResponse
	if err := c.do(ctx, http.MethodPost, "/study/chat", req, &out); err != nil {
		return ChatResponse{}, err
	}
	return out, nil
}

func (c *Client) GenerateFlashcards(ctx context.Context, req ChatRequest) (FlashcardResponse, error) {
	if err := req.Validate(); err != nil {
		return FlashcardResponse{}, err
	}
	var out FlashcardResponse
	if err := c.do(ctx, http.MethodPost, "/study/flashcards", req, &out); err != nil {
		return FlashcardResponse{}, err
	}
	return out, nil
}

func (c *Client) GenerateSummary(ctx context.Context, req ChatRequest) (SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return SummaryResponse{}, err
	}
	var out SummaryResponse
	if err := c.do(ctx, http.MethodPost, "/study/summary", req, &out); err != nil {
		return SummaryResponse{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Detail: errorDetail(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("invalid api response: %w", err)
	}
	return nil
}

// errorDetail pulls a human-readable message out of an error body. The
// backend uses FastAPI's {"detail": ...} but other shapes show up behind
// proxies.
func errorDetail(raw []byte) string {
	var e struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &e); err == nil {
		switch {
		case e.Detail != "":
			return e.Detail
		case e.Message != "":
			return e.Message
		case e.Error != "":
			return e.Error
		}
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
