package study

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"studybuddy/internal/api"
)

// StudySessionView composes the per-session components for whichever
// session is currently open: one chat transcript, one flashcard deck, one
// summary. Switching sessions always resets the chat; decks and summaries
// survive a switch-away through a TTL cache keyed by session id, so coming
// back does not force a regeneration.
type StudySessionView struct {
	client api.StudyAPI
	log    *zap.Logger

	sessionID int
	Chat      *ChatSession
	Deck      *FlashcardDeck
	Summary   *SummaryGenerator

	artifacts *gocache.Cache
}

type sessionArtifacts struct {
	deck    *FlashcardDeck
	summary *SummaryGenerator
}

func NewStudySessionView(client api.StudyAPI, log *zap.Logger) *StudySessionView {
	if log == nil {
		log = zap.NewNop()
	}
	return &StudySessionView{
		client:    client,
		log:       log,
		artifacts: gocache.New(time.Hour, 10*time.Minute),
	}
}

// SessionID is the currently open session, zero when none is.
func (v *StudySessionView) SessionID() int { return v.sessionID }

// Open switches the view to a session id, stashing the previous session's
// deck and summary first.
func (v *StudySessionView) Open(id int) {
	if v.sessionID == id && v.Chat != nil {
		return
	}
	v.stash()

	v.sessionID = id
	v.Chat = NewChatSession(v.client, id, v.log)

	if x, found := v.artifacts.Get(strconv.Itoa(id)); found {
		art := x.(sessionArtifacts)
		v.Deck = art.deck
		v.Summary = art.summary
		return
	}
	v.Deck = NewFlashcardDeck(v.client, id, v.log)
	v.Summary = NewSummaryGenerator(v.client, id, v.log)
}

// Close leaves the current session, stashing its artifacts. The chat
// transcript is dropped.
func (v *StudySessionView) Close() {
	v.stash()
	v.sessionID = 0
	v.Chat = nil
	v.Deck = nil
	v.Summary = nil
}

// Forget drops the cached artifacts for a session, used after deletion.
func (v *StudySessionView) Forget(id int) {
	v.artifacts.Delete(strconv.Itoa(id))
}

func (v *StudySessionView) stash() {
	if v.sessionID == 0 || v.Deck == nil {
		return
	}
	v.artifacts.Set(strconv.Itoa(v.sessionID), sessionArtifacts{
		deck:    v.Deck,
		summary: v.Summary,
	}, gocache.DefaultExpiration)
}
