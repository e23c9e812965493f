package study

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"studybuddy/internal/api"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// FallbackReply is appended in place of an assistant answer when the
// round-trip fails. The failure itself is logged, never raised.
const FallbackReply = "Sorry, I couldn't process that."

// ChatMessage is one transcript entry. Sources and ContextUsed are only
// meaningful on assistant messages.
type ChatMessage struct {
	ID          string
	Role        Role
	Content     string
	Sources     []api.Source
	ContextUsed bool
	At          time.Time
}

// ChatSession owns the ordered transcript for one session id. Messages are
// appended in call order: the user message goes in synchronously on Send,
// and because at most one send is in flight, the reply always lands after
// its user message and before the next one.
type ChatSession struct {
	client    api.StudyAPI
	log       *zap.Logger
	sessionID int

	messages []ChatMessage
	pending  bool
}

func NewChatSession(client api.StudyAPI, sessionID int, log *zap.Logger) *ChatSession {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatSession{client: client, log: log, sessionID: sessionID}
}

func (c *ChatSession) SessionID() int { return c.sessionID }

// Pending reports whether a send is in flight; callers disable re-entrant
// sends while it is true.
func (c *ChatSession) Pending() bool { return c.pending }

// Messages returns a copy of the transcript in conversation order.
func (c *ChatSession) Messages() []ChatMessage {
	out := make([]ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *ChatSession) Len() int { return len(c.messages) }

// Send validates text, appends the user message, and returns the command
// that fetches the reply. Empty input returns ErrEmptyMessage without a
// network call; a send attempted while one is pending is a no-op (nil, nil).
func (c *ChatSession) Send(ctx context.Context, text string) (Command, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if c.pending {
		return nil, nil
	}

	c.messages = append(c.messages, ChatMessage{
		ID:      uuid.NewString(),
		Role:    RoleUser,
		Content: text,
		At:      time.Now(),
	})
	c.pending = true

	client := c.client
	req := api.ChatRequest{Message: text, SessionID: c.sessionID}
	return func() Event {
		resp, err := client.Chat(ctx, req)
		return ChatReply{Response: resp, Err: err}
	}, nil
}

// ResolveReply appends the assistant message for the in-flight send. A
// transport or parse failure degrades to the fixed fallback reply with no
// sources; a missing context_used field defaults to true, since absence must
// not read as "no documents matched".
func (c *ChatSession) ResolveReply(ev ChatReply) {
	if !c.pending {
		return
	}
	c.pending = false

	if ev.Err != nil {
		c.log.Warn("chat send failed", zap.Int("session_id", c.sessionID), zap.Error(ev.Err))
		c.messages = append(c.messages, ChatMessage{
			ID:          uuid.NewString(),
			Role:        RoleAssistant,
			Content:     FallbackReply,
			Sources:     []api.Source{},
			ContextUsed: true,
			At:          time.Now(),
		})
		return
	}

	sources := ev.Response.Sources
	if sources == nil {
		sources = []api.Source{}
	}
	used := true
	if ev.Response.ContextUsed != nil {
		used = *ev.Response.ContextUsed
	} else {
		// The backend contract marks this field optional; treating
		// absence as "context was used" can mask retrieval failures.
		c.log.Warn("chat reply missing context_used field", zap.Int("session_id", c.sessionID))
	}
	c.messages = append(c.messages, ChatMessage{
		ID:          uuid.NewString(),
		Role:        RoleAssistant,
		Content:     ev.Response.Reply,
		Sources:     sources,
		ContextUsed: used,
		At:          time.Now(),
	})
}
