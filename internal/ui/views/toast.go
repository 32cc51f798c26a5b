package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Toast is a notification as the view renders it
type Toast struct {
	Title   string
	Message string
	Success bool
}

// ToastRenderer stacks toasts in the top-right corner
type ToastRenderer struct {
	styles *Styles
}

func NewToastRenderer(styles *Styles) *ToastRenderer {
	return &ToastRenderer{styles: styles}
}

// Render returns the toast stack right-aligned to width, newest last
func (tr *ToastRenderer) Render(toasts []Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(toasts))
	for _, t := range toasts {
		style := tr.styles.ToastError
		titleStyle := tr.styles.StatusError.Bold(true)
		if t.Success {
			style = tr.styles.ToastSuccess
			titleStyle = tr.styles.StatusSuccess.Bold(true)
		}
		blocks = append(blocks, style.Render(titleStyle.Render(t.Title)+"\n"+t.Message))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, blocks...)
	if width <= 0 {
		return stack
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, stack)
}

// lineCount is the rendered height of s
func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
