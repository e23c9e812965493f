package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit    key.Binding
	Back    key.Binding
	Help    key.Binding
	Enter   key.Binding
	Reload  key.Binding
	Search  key.Binding
	New     key.Binding
	Delete  key.Binding
	NextTab key.Binding
	Flip    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Gen     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select/send"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new session"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch tab"),
		),
		Flip: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "flip card"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "next card"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "previous card"),
		),
		Gen: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "generate"),
		),
	}
}

type helpModel struct {
	keys keyMap
}

func (h helpModel) View(t Theme) string {
	sections := []struct {
		title string
		keys  []key.Binding
	}{
		{"sessions", []key.Binding{h.keys.Enter, h.keys.New, h.keys.Delete, h.keys.Search, h.keys.Reload}},
		{"study", []key.Binding{h.keys.NextTab, h.keys.Enter, h.keys.Gen, h.keys.Flip, h.keys.Next, h.keys.Prev}},
		{"general", []key.Binding{h.keys.Back, h.keys.Help, h.keys.Quit}},
	}

	var b strings.Builder
	b.WriteString(t.TopBarTitle.Render("studybuddy help"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(t.PaneTitle.Render(s.title))
		b.WriteString("\n")
		for _, k := range s.keys {
			b.WriteString(fmt.Sprintf("  %s  %s\n",
				t.TopBarBadge.Render(k.Help().Key),
				t.TopBarMeta.Render(k.Help().Desc)))
		}
	}
	b.WriteString("\n")
	b.WriteString(t.Footer.Render("press any key to close"))
	return b.String()
}
