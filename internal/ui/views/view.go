package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"casefinder/internal/domain"
)

// MenuItem is one row of the mode menu
type MenuItem struct {
	Label    string
	Disabled bool
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	ModeLabel    string
	Input        string
	InputError   string // empty when the input is valid
	Offline      bool
	Pending      bool
	SpinnerFrame string

	ShowMenu  bool
	MenuItems []MenuItem
	MenuIndex int

	Record *domain.CaseRecord // nil hides the result card
	Toasts []Toast
	Help   string
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	toastRender *ToastRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		toastRender: NewToastRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	innerWidth := termWidth - 4 // Main padding

	content := &strings.Builder{}
	content.WriteString(r.renderTitle(state, innerWidth))
	content.WriteString("\n")

	if toasts := r.toastRender.Render(state.Toasts, innerWidth); toasts != "" {
		content.WriteString(toasts)
		content.WriteString("\n")
	}
	content.WriteString("\n")

	content.WriteString(r.styles.Label.Render("Search by: "))
	content.WriteString(r.styles.Highlight.Render(state.ModeLabel))
	content.WriteString("\n")

	if state.InputError != "" {
		content.WriteString(r.styles.InputError.Render(state.Input))
		content.WriteString("\n")
		content.WriteString(r.styles.StatusError.Render(state.InputError))
	} else {
		content.WriteString(r.styles.Input.Render(state.Input))
	}
	content.WriteString("\n")

	if state.ShowMenu {
		content.WriteString(r.renderMenu(state))
		content.WriteString("\n")
	}

	if state.Record != nil {
		content.WriteString(r.renderRecord(state.Record))
		content.WriteString("\n")
	}

	// Push the help bar to the bottom
	if state.Help != "" {
		current := strings.Count(content.String(), "\n") + 1
		available := state.Height - 2
		if available <= 0 {
			available = 22
		}
		if pad := available - current - lineCount(state.Help); pad > 0 {
			content.WriteString(strings.Repeat("\n", pad))
		}
		content.WriteString(r.styles.Help.Render(state.Help))
	}

	return r.styles.Main.Render(content.String())
}

func (r *Renderer) renderTitle(state ViewState, width int) string {
	logo := r.styles.Title.Render("casefinder")

	var indicators []string
	if state.Pending {
		indicators = append(indicators, r.styles.StatusLoading.Render(state.SpinnerFrame+" Searching"))
	}
	if state.Offline {
		indicators = append(indicators, r.styles.StatusWarning.Render("[offline]"))
	}
	if len(indicators) == 0 {
		return logo
	}

	right := strings.Join(indicators, "  ")
	padding := width - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

func (r *Renderer) renderMenu(state ViewState) string {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render("Search mode"))
	b.WriteString("\n")
	for i, item := range state.MenuItems {
		line := fmt.Sprintf("%d. %s", i+1, item.Label)
		switch {
		case item.Disabled:
			line = "  " + r.styles.MenuDisabled.Render(line) + r.styles.Dim.Render(" (current)")
		case i == state.MenuIndex:
			line = r.styles.MenuCursor.Render("> " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line)
		if i < len(state.MenuItems)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(r.styles.Dim.Render("↑/↓ move • enter select • esc cancel"))
	return r.styles.Menu.Render(b.String())
}

func (r *Renderer) renderRecord(rec *domain.CaseRecord) string {
	var b strings.Builder
	for i, f := range RecordFields(rec) {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.styles.CardKey.Render(fmt.Sprintf("%-12s", f.Name)))
		b.WriteString(" ")
		b.WriteString(f.Value)
	}
	return r.styles.Card.Render(b.String())
}

// Field is one labelled value of a case record
type Field struct {
	Name  string
	Value string
}

// RecordFields lists the non-empty fields of rec in display order
func RecordFields(rec *domain.CaseRecord) []Field {
	all := []Field{
		{"Case Number", rec.CaseNumber},
		{"Case ID", rec.ID},
		{"Subject", rec.Subject},
		{"Status", rec.Status},
		{"Priority", rec.Priority},
		{"Origin", rec.Origin},
	}
	if !rec.CreatedDate.IsZero() {
		all = append(all, Field{"Created", rec.CreatedDate.Format("2006-01-02 15:04")})
	}
	out := all[:0]
	for _, f := range all {
		if f.Value != "" {
			out = append(out, f)
		}
	}
	return out
}
