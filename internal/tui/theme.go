package tui

import "github.com/charmbracelet/lipgloss"

type ThemeName string

const (
	ThemePaper    ThemeName = "paper"
	ThemeInkwell  ThemeName = "inkwell"
	themeFallback           = ThemePaper
)

type Theme struct {
	Name ThemeName

	TextPrimary lipgloss.AdaptiveColor
	TextMuted   lipgloss.AdaptiveColor
	Accent      lipgloss.AdaptiveColor
	Success     lipgloss.AdaptiveColor
	Warn        lipgloss.AdaptiveColor
	Error       lipgloss.AdaptiveColor
	Border      lipgloss.AdaptiveColor
	BorderHi    lipgloss.AdaptiveColor

	TopBar      lipgloss.Style
	TopBarTitle lipgloss.Style
	TopBarBadge lipgloss.Style
	TopBarMeta  lipgloss.Style
	Footer      lipgloss.Style

	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	PaneTitle   lipgloss.Style

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	InputBox  lipgloss.Style
	InputBoxF lipgloss.Style
	Spinner   lipgloss.Style

	RoleYou    lipgloss.Style
	RoleAI     lipgloss.Style
	SourceLine lipgloss.Style
	NoContext  lipgloss.Style

	CardFront  lipgloss.Style
	CardBack   lipgloss.Style
	CardMeta   lipgloss.Style
	Notice     lipgloss.Style
	ErrText    lipgloss.Style
	Greeting   lipgloss.Style
	EmptyState lipgloss.Style
}

func NewTheme(name string) Theme {
	switch ThemeName(name) {
	case ThemeInkwell:
		return newInkwellTheme()
	case ThemePaper:
		return newPaperTheme()
	default:
		return newPaperTheme()
	}
}

func newPaperTheme() Theme {
	t := Theme{
		Name:        ThemePaper,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#1d2433", Dark: "#f2f2f2"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#4a5568", Dark: "#c7c7c7"},
		Accent:      lipgloss.AdaptiveColor{Light: "#1f6feb", Dark: "#7aa2ff"},
		Success:     lipgloss.AdaptiveColor{Light: "#0f766e", Dark: "#46d1b7"},
		Warn:        lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#f4b27d"},
		Error:       lipgloss.AdaptiveColor{Light: "#b42318", Dark: "#ff7a7a"},
		Border:      lipgloss.AdaptiveColor{Light: "#cbd5e0", Dark: "#3a3a3a"},
		BorderHi:    lipgloss.AdaptiveColor{Light: "#1f6feb", Dark: "#7aa2ff"},
	}
	return t.build()
}

func newInkwellTheme() Theme {
	t := Theme{
		Name:        ThemeInkwell,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#111827", Dark: "#eaeaea"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#374151", Dark: "#b7b7b7"},
		Accent:      lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#b794f6"},
		Success:     lipgloss.AdaptiveColor{Light: "#059669", Dark: "#46d1b7"},
		Warn:        lipgloss.AdaptiveColor{Light: "#d97706", Dark: "#f4b27d"},
		Error:       lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#ff7a7a"},
		Border:      lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#2a2a2a"},
		BorderHi:    lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#b794f6"},
	}
	return t.build()
}

func (t Theme) build() Theme {
	t.TopBar = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.TopBarTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.TopBarBadge = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.TopBarMeta = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.Footer = lipgloss.NewStyle().Foreground(t.TextMuted)

	t.Pane = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.PaneFocused = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.BorderHi).Padding(0, 1)
	t.PaneTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextMuted)

	t.TabActive = lipgloss.NewStyle().Bold(true).Foreground(t.Accent).Underline(true).Padding(0, 1)
	t.TabInactive = lipgloss.NewStyle().Foreground(t.TextMuted).Padding(0, 1)

	t.InputBox = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.InputBoxF = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.BorderHi).Padding(0, 1)
	t.Spinner = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)

	t.RoleYou = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.RoleAI = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.SourceLine = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.NoContext = lipgloss.NewStyle().Foreground(t.Warn).Italic(true)

	t.CardFront = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(1, 3).Align(lipgloss.Center)
	t.CardBack = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.BorderHi).Padding(1, 3).Align(lipgloss.Center)
	t.CardMeta = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.Notice = lipgloss.NewStyle().Foreground(t.Warn)
	t.ErrText = lipgloss.NewStyle().Foreground(t.Error)
	t.Greeting = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.EmptyState = lipgloss.NewStyle().Foreground(t.TextMuted)
	return t
}
