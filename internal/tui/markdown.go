package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders assistant replies and summaries for the
// terminal. Renderers are cached per width because glamour word-wraps at
// construction time.
type MarkdownRenderer struct {
	byWidth map[int]*glamour.TermRenderer
}

func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{byWidth: make(map[int]*glamour.TermRenderer)}
}

func (m *MarkdownRenderer) Render(content string, width int) string {
	if width < 10 {
		width = 10
	}
	r, ok := m.byWidth[width]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
			glamour.WithEmoji(),
		)
		if err != nil {
			return content
		}
		m.byWidth[width] = r
	}

	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}
