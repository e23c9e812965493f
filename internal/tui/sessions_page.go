package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"studybuddy/internal/api"
)

// sessionIcons decorate list rows. The icon is a stable function of the
// session id so a row keeps its icon when the list reorders or filters.
var sessionIcons = []string{"📘", "📗", "📙", "📕", "📓", "📔"}

func sessionIcon(id int) string {
	if id < 0 {
		id = -id
	}
	return sessionIcons[id%len(sessionIcons)]
}

// sessionItem adapts an api.Session to the bubbles list.
type sessionItem struct {
	session api.Session
}

func (i sessionItem) Title() string {
	return fmt.Sprintf("%s %s", sessionIcon(i.session.ID), i.session.Name)
}

func (i sessionItem) Description() string {
	docs := "documents"
	if i.session.DocumentCount == 1 {
		docs = "document"
	}
	desc := fmt.Sprintf("%d %s", i.session.DocumentCount, docs)
	if !i.session.UpdatedAt.IsZero() {
		desc += " · updated " + i.session.UpdatedAt.Format("Jan 2")
	}
	return desc
}

func (i sessionItem) FilterValue() string { return i.session.Name }

func newSessionList(t Theme) list.Model {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(t.Accent).BorderLeftForeground(t.Accent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.
		Foreground(t.TextMuted).BorderLeftForeground(t.Accent)

	l := list.New(nil, d, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	// Filtering goes through SessionRegistry.Filter so the search box and
	// the CLI share one matcher; the built-in fuzzy filter stays off.
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

// refreshSessionList rebuilds the visible rows from the registry, keeping
// the cursor on the same session id when it survives the refresh.
func (m *Model) refreshSessionList() {
	var keepID int
	if it, ok := m.sessionList.SelectedItem().(sessionItem); ok {
		keepID = it.session.ID
	}

	sessions := m.app.Registry.Filter(m.searchInput.Value())
	items := make([]list.Item, len(sessions))
	idx := 0
	for i, s := range sessions {
		items[i] = sessionItem{session: s}
		if s.ID == keepID {
			idx = i
		}
	}
	m.sessionList.SetItems(items)
	if len(items) > 0 {
		m.sessionList.Select(idx)
	}
}

func (m *Model) viewSessions() string {
	t := m.theme
	var b strings.Builder

	greeting := "Hello!"
	if m.app.Config.UserName != "" {
		greeting = fmt.Sprintf("Hello, %s!", m.app.Config.UserName)
	}
	b.WriteString(t.Greeting.Render(greeting))
	b.WriteString("  ")
	b.WriteString(t.TopBarMeta.Render("Your study sessions"))
	b.WriteString("\n\n")

	if m.searching || m.searchInput.Value() != "" {
		box := t.InputBox
		if m.searching {
			box = t.InputBoxF
		}
		b.WriteString(box.Render("🔍 " + m.searchInput.View()))
		b.WriteString("\n")
	}

	switch {
	case m.app.Registry.Loading() && !m.app.Registry.Loaded():
		b.WriteString("\n")
		b.WriteString(m.spin.View())
		b.WriteString(t.TopBarMeta.Render(" Loading sessions…"))
	case len(m.sessionList.Items()) == 0 && m.searchInput.Value() != "":
		b.WriteString("\n")
		b.WriteString(t.EmptyState.Render(fmt.Sprintf("Nothing matches %q.", m.searchInput.Value())))
	case len(m.sessionList.Items()) == 0:
		b.WriteString("\n")
		b.WriteString(t.EmptyState.Render("No study sessions yet. Press n to create one."))
	default:
		b.WriteString(m.sessionList.View())
	}

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(t.ErrText.Render(m.errText))
	}

	footer := "enter open · n new · d delete · / search · r reload · ? help · ctrl+c quit"
	return lipgloss.JoinVertical(lipgloss.Left, b.String(), "", t.Footer.Render(footer))
}
