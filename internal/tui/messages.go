package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"studybuddy/internal/study"
)

// Study commands run off the event loop as tea.Cmds; their events come back
// as these messages and are resolved on the loop. Chat, deck and summary
// messages carry the component that issued the command, so a reply that
// arrives after the user switched sessions resolves against the old
// instance and is simply never rendered.

type sessionsLoadedMsg struct{ ev study.SessionsLoaded }

type sessionDeletedMsg struct{ ev study.SessionDeleted }

type sessionCreatedMsg struct{ ev study.SessionCreated }

type docUploadedMsg struct{ ev study.DocumentUploaded }

type chatReplyMsg struct {
	target *study.ChatSession
	ev     study.ChatReply
}

type deckGeneratedMsg struct {
	target *study.FlashcardDeck
	ev     study.DeckGenerated
}

type summaryDoneMsg struct {
	target *study.SummaryGenerator
	ev     study.SummaryGenerated
}

// wizardFinishedMsg fires after the completion screen's short linger, the
// terminal equivalent of the web client's redirect timer.
type wizardFinishedMsg struct{}

func runLoad(cmd study.Command) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg { return sessionsLoadedMsg{ev: cmd().(study.SessionsLoaded)} }
}

func runDelete(cmd study.Command) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg { return sessionDeletedMsg{ev: cmd().(study.SessionDeleted)} }
}

func runCreate(cmd study.Command) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg { return sessionCreatedMsg{ev: cmd().(study.SessionCreated)} }
}

func runUpload(cmd study.Command) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg { return docUploadedMsg{ev: cmd().(study.DocumentUploaded)} }
}

func runChat(target *study.ChatSession, cmd study.Command) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg { return chatReplyMsg{target: target, ev: cmd().(study.ChatReply)} }
}

func runDeck(target *study.FlashcardDeck, cmd study.Command) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg { return deckGeneratedMsg{target: target, ev: cmd().(study.DeckGenerated)} }
}

func runSummary(target *study.SummaryGenerator, cmd study.Command) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg { return summaryDoneMsg{target: target, ev: cmd().(study.SummaryGenerated)} }
}
