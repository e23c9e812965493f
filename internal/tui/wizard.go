package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"studybuddy/internal/study"
)

// wizardModel is the new-session overlay: name the session, queue PDF
// files, then create and upload. The state lives in the UploadWorkflow;
// this model only holds the inputs and turns keys into workflow calls.
type wizardModel struct {
	theme Theme
	flow  *study.UploadWorkflow

	nameInput textinput.Model
	pathInput textinput.Model
	spin      spinner.Model

	errText string
}

func newWizard(flow *study.UploadWorkflow, t Theme) *wizardModel {
	name := textinput.New()
	name.Placeholder = "e.g. Biology 101"
	name.CharLimit = 80
	name.Width = 40
	name.Focus()

	path := textinput.New()
	path.Placeholder = "path/to/notes.pdf"
	path.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = t.Spinner

	return &wizardModel{
		theme:     t,
		flow:      flow,
		nameInput: name,
		pathInput: path,
		spin:      sp,
	}
}

// Update handles keys while the wizard overlay is open. It reports
// cancelled=true when the user backed out before anything was sent; the
// create command (when the upload starts) comes back as a tea.Cmd.
func (w *wizardModel) Update(ctx context.Context, msg tea.Msg) (cmd tea.Cmd, cancelled bool) {
	if sp, ok := msg.(spinner.TickMsg); ok {
		var c tea.Cmd
		w.spin, c = w.spin.Update(sp)
		return c, false
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}

	switch w.flow.State() {
	case study.StateNaming:
		switch keyMsg.String() {
		case "esc":
			w.flow.Cancel()
			return nil, true
		case "enter":
			w.flow.SetName(w.nameInput.Value())
			if err := w.flow.ConfirmName(); err != nil {
				w.errText = "Session name can't be empty."
				return nil, false
			}
			w.errText = ""
			w.nameInput.Blur()
			w.pathInput.Focus()
			return nil, false
		}
		var c tea.Cmd
		w.nameInput, c = w.nameInput.Update(keyMsg)
		return c, false

	case study.StateAwaitingFiles:
		switch keyMsg.String() {
		case "esc":
			w.flow.Rename()
			w.errText = ""
			w.pathInput.Blur()
			w.nameInput.Focus()
			return nil, false
		case "enter":
			path := strings.TrimSpace(w.pathInput.Value())
			if path == "" {
				return nil, false
			}
			if err := w.flow.AddFile(path); err != nil {
				w.errText = "Only PDF files can be uploaded."
				return nil, false
			}
			w.errText = ""
			w.pathInput.SetValue("")
			return nil, false
		case "ctrl+x":
			if n := len(w.flow.Candidates()); n > 0 {
				w.flow.RemoveFile(n - 1)
			}
			return nil, false
		case "ctrl+s":
			create, err := w.flow.Begin(ctx)
			if err != nil {
				w.errText = "Add at least one PDF first."
				return nil, false
			}
			w.errText = ""
			return tea.Batch(runCreate(create), w.spin.Tick), false
		}
		var c tea.Cmd
		w.pathInput, c = w.pathInput.Update(keyMsg)
		return c, false
	}

	// Uploading and complete screens take no input; the completion screen
	// advances on its own timer handled by the root model.
	return nil, false
}

// SetError surfaces a failure reported by the workflow after a resolve,
// for example a failed create that dropped the wizard back to the file
// step.
func (w *wizardModel) SetError(text string) { w.errText = text }

func (w *wizardModel) View(width int) string {
	t := w.theme
	var b strings.Builder

	b.WriteString(t.TopBarTitle.Render("New study session"))
	b.WriteString("\n\n")

	switch w.flow.State() {
	case study.StateNaming:
		b.WriteString(t.PaneTitle.Render("1/2 · Name your session"))
		b.WriteString("\n\n")
		b.WriteString(w.nameInput.View())
		b.WriteString("\n\n")
		b.WriteString(t.Footer.Render("enter continue · esc cancel"))

	case study.StateAwaitingFiles:
		b.WriteString(t.PaneTitle.Render(fmt.Sprintf("2/2 · Add PDFs to %q", w.flow.Name())))
		b.WriteString("\n\n")
		b.WriteString(w.pathInput.View())
		b.WriteString("\n\n")
		cands := w.flow.Candidates()
		if len(cands) == 0 {
			b.WriteString(t.EmptyState.Render("No files queued yet."))
			b.WriteString("\n")
		}
		for _, c := range cands {
			b.WriteString(t.SourceLine.Render(fmt.Sprintf("  • %s", c.Name)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(t.Footer.Render("enter add file · ctrl+x remove last · ctrl+s upload · esc rename"))

	case study.StateUploading:
		b.WriteString(w.spin.View())
		b.WriteString(t.TopBarMeta.Render(" Creating session and uploading…"))

	case study.StateComplete:
		b.WriteString(t.Greeting.Render(fmt.Sprintf("%q is ready.", w.flow.Name())))
		b.WriteString("\n\n")
		for _, o := range w.flow.Outcomes() {
			if o.Err != nil {
				b.WriteString(t.ErrText.Render(fmt.Sprintf("  ✗ %s — upload failed", o.Filename)))
			} else {
				b.WriteString(t.SourceLine.Render(fmt.Sprintf("  ✓ %s — %d chunks", o.Filename, o.Chunks)))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(t.Footer.Render("opening session…"))
	}

	if w.errText != "" {
		b.WriteString("\n\n")
		b.WriteString(t.ErrText.Render(w.errText))
	}
	return b.String()
}
