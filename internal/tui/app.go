// Package tui is the terminal front end: a session picker, a new-session
// upload wizard, and a per-session study page with chat, flashcard and
// summary tabs. All state changes happen on the bubbletea loop; network
// work runs in commands and comes back as messages.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"studybuddy/internal/app"
	"studybuddy/internal/study"
)

type page int

const (
	pageSessions page = iota
	pageStudy
)

// Model is the root bubbletea model.
type Model struct {
	app   *app.Application
	ctx   context.Context
	theme Theme
	keys  keyMap
	log   *zap.Logger

	width  int
	height int
	ready  bool

	page     page
	showHelp bool

	sessionList list.Model
	searchInput textinput.Model
	searching   bool
	errText     string

	// confirmID is nonzero while the delete confirmation overlay is up.
	confirmID   int
	confirmName string

	wizard *wizardModel

	tab       studyTab
	chatInput textarea.Model
	chatVP    viewport.Model
	summaryVP viewport.Model
	markdown  *MarkdownRenderer

	spin spinner.Model
}

func NewModel(a *app.Application) Model {
	t := NewTheme(a.Config.Theme)

	search := textinput.New()
	search.Placeholder = "search sessions"
	search.Prompt = ""
	search.Width = 32

	input := textarea.New()
	input.Placeholder = "Ask about your documents…"
	input.SetHeight(2)
	input.ShowLineNumbers = false
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = t.Spinner

	return Model{
		app:         a,
		ctx:         context.Background(),
		theme:       t,
		keys:        defaultKeyMap(),
		log:         a.Logger.Named("tui"),
		page:        pageSessions,
		sessionList: newSessionList(t),
		searchInput: search,
		chatInput:   input,
		markdown:    NewMarkdownRenderer(),
		spin:        sp,
	}
}

// Run starts the TUI on the alternate screen and blocks until exit.
func Run(a *app.Application) error {
	p := tea.NewProgram(NewModel(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		runLoad(m.app.Registry.LoadCommand(m.ctx)),
		m.spin.Tick,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		var c tea.Cmd
		m.spin, c = m.spin.Update(msg)
		cmds = append(cmds, c)
		if m.wizard != nil {
			c, _ = m.wizard.Update(m.ctx, msg)
			cmds = append(cmds, c)
		}
		return m, tea.Batch(cmds...)

	case sessionsLoadedMsg:
		if err := m.app.Registry.ResolveLoad(msg.ev); err != nil {
			m.errText = "Couldn't load sessions. Press r to retry."
			m.log.Warn("session load failed", zap.Error(err))
		} else {
			m.errText = ""
		}
		m.refreshSessionList()
		return m, nil

	case sessionDeletedMsg:
		if err := m.app.Registry.ResolveDelete(msg.ev); err != nil {
			m.errText = "Couldn't delete the session. Try again."
			m.log.Warn("session delete failed", zap.Int("session_id", msg.ev.ID), zap.Error(err))
		} else {
			m.app.View.Forget(msg.ev.ID)
			if m.page == pageStudy && m.app.View.SessionID() == msg.ev.ID {
				m.closeStudy()
			}
		}
		m.refreshSessionList()
		return m, nil

	case sessionCreatedMsg:
		if m.wizard == nil {
			return m, nil
		}
		uploads := m.wizard.flow.ResolveCreate(m.ctx, msg.ev)
		if msg.ev.Err != nil {
			m.wizard.SetError("Couldn't create the session. Try again.")
			return m, nil
		}
		cmds := make([]tea.Cmd, 0, len(uploads))
		for _, up := range uploads {
			cmds = append(cmds, runUpload(up))
		}
		return m, tea.Batch(cmds...)

	case docUploadedMsg:
		if m.wizard == nil {
			return m, nil
		}
		m.wizard.flow.ResolveUpload(msg.ev)
		if m.wizard.flow.State() == study.StateComplete {
			return m, tea.Tick(time.Second, func(time.Time) tea.Msg { return wizardFinishedMsg{} })
		}
		return m, nil

	case wizardFinishedMsg:
		if m.wizard == nil {
			return m, nil
		}
		id, ok := m.wizard.flow.TakeSessionID()
		if ok {
			s := m.wizard.flow.Session()
			s.DocumentCount = len(m.wizard.flow.Outcomes()) - len(m.wizard.flow.FailedFiles())
			m.app.Registry.ApplyCreated(s)
		}
		m.wizard = nil
		m.refreshSessionList()
		if ok {
			m.openStudy(id)
		}
		return m, nil

	case chatReplyMsg:
		// A reply for a chat the user already left resolves against that
		// old instance and never repaints.
		msg.target.ResolveReply(msg.ev)
		if m.app.View.Chat == msg.target {
			m.chatVP.SetContent(m.renderTranscript())
			m.chatVP.GotoBottom()
		}
		return m, nil

	case deckGeneratedMsg:
		msg.target.ResolveGenerate(msg.ev)
		return m, nil

	case summaryDoneMsg:
		msg.target.ResolveGenerate(msg.ev)
		if m.app.View.Summary == msg.target {
			m.summaryVP.SetContent(m.markdown.Render(msg.target.Summary(), m.contentWidth()))
			m.summaryVP.GotoTop()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.wizard != nil {
		cmd, cancelled := m.wizard.Update(m.ctx, msg)
		if cancelled {
			m.wizard = nil
		}
		return m, cmd
	}

	if m.confirmID != 0 {
		switch msg.String() {
		case "y", "Y":
			id := m.confirmID
			m.confirmID = 0
			return m, runDelete(m.app.Registry.DeleteCommand(m.ctx, id))
		default:
			// Anything but an explicit yes keeps the session.
			m.confirmID = 0
			return m, nil
		}
	}

	switch m.page {
	case pageSessions:
		return m.handleSessionsKey(msg)
	case pageStudy:
		return m.handleStudyKey(msg)
	}
	return m, nil
}

func (m Model) handleSessionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.searchInput.SetValue("")
			m.searchInput.Blur()
			m.refreshSessionList()
			return m, nil
		case "enter":
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		}
		var c tea.Cmd
		m.searchInput, c = m.searchInput.Update(msg)
		m.refreshSessionList()
		return m, c
	}

	switch msg.String() {
	case "?":
		m.showHelp = true
		return m, nil
	case "/":
		m.searching = true
		m.searchInput.Focus()
		return m, nil
	case "r":
		return m, runLoad(m.app.Registry.LoadCommand(m.ctx))
	case "n":
		flow := study.NewUploadWorkflow(m.app.Registry, m.app.Client, m.log.Named("upload"))
		m.wizard = newWizard(flow, m.theme)
		return m, nil
	case "d":
		if it, ok := m.sessionList.SelectedItem().(sessionItem); ok {
			m.confirmID = it.session.ID
			m.confirmName = it.session.Name
		}
		return m, nil
	case "enter":
		if it, ok := m.sessionList.SelectedItem().(sessionItem); ok {
			m.openStudy(it.session.ID)
		}
		return m, nil
	case "q":
		return m, tea.Quit
	}

	var c tea.Cmd
	m.sessionList, c = m.sessionList.Update(msg)
	return m, c
}

func (m Model) handleStudyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeStudy()
		return m, nil
	case "tab":
		m.tab = (m.tab + 1) % tabCount
		return m, nil
	case "shift+tab":
		m.tab = (m.tab + tabCount - 1) % tabCount
		return m, nil
	}

	switch m.tab {
	case tabChat:
		return m.handleChatKey(msg)
	case tabCards:
		return m.handleCardsKey(msg)
	case tabSummary:
		return m.handleSummaryKey(msg)
	}
	return m, nil
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		chat := m.app.View.Chat
		cmd, err := chat.Send(m.ctx, m.chatInput.Value())
		if err != nil || cmd == nil {
			// Blank input and an in-flight send are both silent no-ops.
			return m, nil
		}
		m.chatInput.Reset()
		m.chatVP.SetContent(m.renderTranscript())
		m.chatVP.GotoBottom()
		return m, runChat(chat, cmd)
	}

	var c tea.Cmd
	m.chatInput, c = m.chatInput.Update(msg)
	return m, c
}

func (m Model) handleCardsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	deck := m.app.View.Deck
	switch msg.String() {
	case "g":
		return m, runDeck(deck, deck.Generate(m.ctx))
	case " ":
		deck.Flip()
	case "right", "l":
		deck.Next()
	case "left", "h":
		deck.Previous()
	case "?":
		m.showHelp = true
	}
	return m, nil
}

func (m Model) handleSummaryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "g":
		gen := m.app.View.Summary
		return m, runSummary(gen, gen.Generate(m.ctx))
	case "?":
		m.showHelp = true
	case "up", "k", "down", "j", "pgup", "pgdown":
		var c tea.Cmd
		m.summaryVP, c = m.summaryVP.Update(msg)
		return m, c
	}
	return m, nil
}

func (m *Model) openStudy(id int) {
	m.app.View.Open(id)
	m.page = pageStudy
	m.tab = tabChat
	m.chatInput.Reset()
	m.chatInput.Focus()
	m.chatVP.SetContent(m.renderTranscript())
	m.summaryVP.SetContent(m.markdown.Render(m.app.View.Summary.Summary(), m.contentWidth()))
}

func (m *Model) closeStudy() {
	m.app.View.Close()
	m.page = pageSessions
	m.refreshSessionList()
}

func (m *Model) contentWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 80
	}
	return w
}

func (m *Model) layout() {
	listHeight := m.height - 8
	if listHeight < 4 {
		listHeight = 4
	}
	m.sessionList.SetSize(m.contentWidth(), listHeight)

	chatHeight := m.height - 12
	if chatHeight < 4 {
		chatHeight = 4
	}
	m.chatVP.Width = m.contentWidth()
	m.chatVP.Height = chatHeight
	m.summaryVP.Width = m.contentWidth()
	m.summaryVP.Height = m.height - 9
	if m.summaryVP.Height < 4 {
		m.summaryVP.Height = 4
	}
	m.chatInput.SetWidth(m.contentWidth() - 4)

	if m.page == pageStudy && m.app.View.Chat != nil {
		m.chatVP.SetContent(m.renderTranscript())
		m.summaryVP.SetContent(m.markdown.Render(m.app.View.Summary.Summary(), m.contentWidth()))
	}
}

func (m Model) View() string {
	if !m.ready {
		return "loading…"
	}

	if m.showHelp {
		return helpModel{keys: m.keys}.View(m.theme)
	}
	if m.wizard != nil {
		return m.wizard.View(m.contentWidth())
	}
	if m.confirmID != 0 {
		t := m.theme
		return t.TopBarTitle.Render("Delete session?") + "\n\n" +
			t.TopBarMeta.Render("This removes \""+m.confirmName+"\" and all its documents.") + "\n\n" +
			t.Footer.Render("y delete · any other key keep")
	}

	switch m.page {
	case pageStudy:
		return m.viewStudy()
	default:
		return m.viewSessions()
	}
}
