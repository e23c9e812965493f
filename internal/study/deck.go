package study

import (
	"context"

	"go.uber.org/zap"

	"studybuddy/internal/api"
)

// EmptyDeckNotice is shown when generation succeeds but yields zero cards
// and the backend provided no message of its own.
const EmptyDeckNotice = "Upload documents first to generate flashcards."

// RetryDeckNotice is shown when generation fails outright; the prior deck
// is kept.
const RetryDeckNotice = "Couldn't generate flashcards. Try again."

const flashcardPrompt = "Generate flashcards from my documents"

// FlashcardDeck owns the generated, cached deck for one session id. The
// deck is replaced wholesale on regeneration; navigation is cyclic, and the
// current index is always within bounds while the deck is non-empty.
type FlashcardDeck struct {
	client    api.StudyAPI
	log       *zap.Logger
	sessionID int

	cards      []api.Flashcard
	index      int
	showAnswer bool

	generating bool
	notice     string
}

func NewFlashcardDeck(client api.StudyAPI, sessionID int, log *zap.Logger) *FlashcardDeck {
	if log == nil {
		log = zap.NewNop()
	}
	return &FlashcardDeck{client: client, log: log, sessionID: sessionID}
}

func (d *FlashcardDeck) SessionID() int   { return d.sessionID }
func (d *FlashcardDeck) Len() int         { return len(d.cards) }
func (d *FlashcardDeck) Index() int       { return d.index }
func (d *FlashcardDeck) Generating() bool { return d.generating }

// Notice is the user-facing guidance from the last generation attempt,
// empty when the attempt produced cards.
func (d *FlashcardDeck) Notice() string { return d.notice }

// ShowingAnswer reports the flip state of the current card.
func (d *FlashcardDeck) ShowingAnswer() bool { return d.showAnswer }

// Current returns the card under the index, and false for an empty deck.
func (d *FlashcardDeck) Current() (api.Flashcard, bool) {
	if len(d.cards) == 0 {
		return api.Flashcard{}, false
	}
	return d.cards[d.index], true
}

// Cards returns a copy of the deck in order.
func (d *FlashcardDeck) Cards() []api.Flashcard {
	out := make([]api.Flashcard, len(d.cards))
	copy(out, d.cards)
	return out
}

// Generate requests a fresh deck. Returns nil while a generation is already
// in flight.
func (d *FlashcardDeck) Generate(ctx context.Context) Command {
	if d.generating {
		return nil
	}
	d.generating = true

	client := d.client
	req := api.ChatRequest{Message: flashcardPrompt, SessionID: d.sessionID}
	return func() Event {
		resp, err := client.GenerateFlashcards(ctx, req)
		return DeckGenerated{Response: resp, Err: err}
	}
}

// ResolveGenerate applies a finished generation. Transport failure keeps the
// prior deck and surfaces a retry notice. A successful response replaces the
// deck entirely: with at least one card the index and flip state reset to
// the first question side; with zero cards the deck ends up empty and a
// guidance notice (the server's message when present) is surfaced.
func (d *FlashcardDeck) ResolveGenerate(ev DeckGenerated) {
	d.generating = false

	if ev.Err != nil {
		d.log.Warn("flashcard generation failed", zap.Int("session_id", d.sessionID), zap.Error(ev.Err))
		d.notice = RetryDeckNotice
		return
	}

	d.cards = ev.Response.Flashcards
	d.index = 0
	d.showAnswer = false

	if len(d.cards) == 0 {
		d.notice = ev.Response.Message
		if d.notice == "" {
			d.notice = EmptyDeckNotice
		}
		return
	}
	d.notice = ""
}

// Next steps forward cyclically and snaps back to the question side. A
// no-op on decks of one card or fewer.
func (d *FlashcardDeck) Next() {
	if len(d.cards) <= 1 {
		return
	}
	d.index = (d.index + 1) % len(d.cards)
	d.showAnswer = false
}

// Previous steps backward cyclically and snaps back to the question side.
func (d *FlashcardDeck) Previous() {
	if len(d.cards) <= 1 {
		return
	}
	d.index = (d.index - 1 + len(d.cards)) % len(d.cards)
	d.showAnswer = false
}

// Flip toggles question/answer for the current card without moving.
func (d *FlashcardDeck) Flip() {
	if len(d.cards) == 0 {
		return
	}
	d.showAnswer = !d.showAnswer
}
