package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"studybuddy/internal/study"
)

type studyTab int

const (
	tabChat studyTab = iota
	tabCards
	tabSummary
	tabCount
)

func (t studyTab) String() string {
	switch t {
	case tabChat:
		return "Chat"
	case tabCards:
		return "Flashcards"
	case tabSummary:
		return "Summary"
	}
	return "?"
}

var chatSuggestions = []string{
	"What are the key concepts in my documents?",
	"Quiz me on the main topics.",
	"Explain the hardest part in simple terms.",
}

func (m *Model) viewStudy() string {
	t := m.theme
	var b strings.Builder

	name := fmt.Sprintf("session %d", m.app.View.SessionID())
	docs := 0
	if s, ok := m.app.Registry.Get(m.app.View.SessionID()); ok {
		name = s.Name
		docs = s.DocumentCount
	}
	b.WriteString(t.TopBarTitle.Render(sessionIcon(m.app.View.SessionID()) + " " + name))
	b.WriteString("  ")
	b.WriteString(t.TopBarMeta.Render(fmt.Sprintf("%d documents", docs)))
	b.WriteString("\n")

	for tab := studyTab(0); tab < tabCount; tab++ {
		if tab == m.tab {
			b.WriteString(t.TabActive.Render(tab.String()))
		} else {
			b.WriteString(t.TabInactive.Render(tab.String()))
		}
	}
	b.WriteString("\n\n")

	switch m.tab {
	case tabChat:
		b.WriteString(m.viewChat())
	case tabCards:
		b.WriteString(m.viewCards())
	case tabSummary:
		b.WriteString(m.viewSummary())
	}

	var footer string
	switch m.tab {
	case tabChat:
		footer = "enter send · tab switch · esc back · ? help"
	case tabCards:
		footer = "g generate · space flip · ←/→ navigate · tab switch · esc back"
	case tabSummary:
		footer = "g generate · tab switch · esc back"
	}
	return lipgloss.JoinVertical(lipgloss.Left, b.String(), "", t.Footer.Render(footer))
}

func (m *Model) viewChat() string {
	t := m.theme
	chat := m.app.View.Chat
	var b strings.Builder

	if chat.Len() == 0 {
		b.WriteString(t.EmptyState.Render("Ask anything about your documents. Try:"))
		b.WriteString("\n")
		for _, s := range chatSuggestions {
			b.WriteString(t.SourceLine.Render("  · " + s))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	} else {
		b.WriteString(m.chatVP.View())
		b.WriteString("\n")
	}

	if chat.Pending() {
		b.WriteString(m.spin.View())
		b.WriteString(t.TopBarMeta.Render(" Thinking…"))
		b.WriteString("\n")
	}

	box := t.InputBoxF
	if chat.Pending() {
		box = t.InputBox
	}
	b.WriteString(box.Width(m.contentWidth()).Render(m.chatInput.View()))
	return b.String()
}

// renderTranscript formats the full conversation for the chat viewport.
func (m *Model) renderTranscript() string {
	t := m.theme
	width := m.contentWidth()
	var b strings.Builder

	for _, msg := range m.app.View.Chat.Messages() {
		stamp := t.TopBarMeta.Render(msg.At.Format("15:04"))
		if msg.Role == study.RoleUser {
			b.WriteString(t.RoleYou.Render("YOU") + " " + stamp)
			b.WriteString("\n")
			b.WriteString(msg.Content)
			b.WriteString("\n\n")
			continue
		}

		b.WriteString(t.RoleAI.Render("AI") + " " + stamp)
		b.WriteString("\n")
		b.WriteString(m.markdown.Render(msg.Content, width))
		b.WriteString("\n")
		if !msg.ContextUsed {
			b.WriteString(t.NoContext.Render("No matching content found in your documents."))
			b.WriteString("\n")
		}
		for _, src := range msg.Sources {
			b.WriteString(t.SourceLine.Render(fmt.Sprintf("  [%d] %s · %.0f%%  %s",
				src.SourceNumber, src.Filename, src.Similarity*100, src.Preview)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) viewCards() string {
	t := m.theme
	deck := m.app.View.Deck
	var b strings.Builder

	if deck.Generating() {
		b.WriteString(m.spin.View())
		b.WriteString(t.TopBarMeta.Render(" Generating flashcards…"))
		return b.String()
	}

	if notice := deck.Notice(); notice != "" {
		b.WriteString(t.Notice.Render(notice))
		b.WriteString("\n\n")
	}

	card, ok := deck.Current()
	if !ok {
		if deck.Notice() == "" {
			b.WriteString(t.EmptyState.Render("No flashcards yet. Press g to generate a deck."))
		}
		return b.String()
	}

	face := card.Question
	style := t.CardFront
	side := "question"
	if deck.ShowingAnswer() {
		face = card.Answer
		style = t.CardBack
		side = "answer"
	}

	w := m.contentWidth() - 8
	if w > 64 {
		w = 64
	}
	b.WriteString(style.Width(w).Render(face))
	b.WriteString("\n")
	b.WriteString(t.CardMeta.Render(fmt.Sprintf("%d/%d · %s · space to flip",
		deck.Index()+1, deck.Len(), side)))
	return b.String()
}

func (m *Model) viewSummary() string {
	t := m.theme
	gen := m.app.View.Summary
	var b strings.Builder

	if gen.Generating() {
		b.WriteString(m.spin.View())
		b.WriteString(t.TopBarMeta.Render(" Summarizing your documents…"))
		return b.String()
	}

	if gen.Failed() {
		b.WriteString(t.Notice.Render("Couldn't generate a summary. Press g to retry."))
		b.WriteString("\n\n")
	}

	if gen.Summary() == "" {
		if !gen.Failed() {
			b.WriteString(t.EmptyState.Render("No summary yet. Press g to summarize all documents."))
		}
		return b.String()
	}
	b.WriteString(m.summaryVP.View())
	return b.String()
}
