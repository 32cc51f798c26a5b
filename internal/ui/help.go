package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"casefinder/internal/domain"
	"casefinder/internal/ui/views"
)

var errNoProgram = errors.New("program not set")

// renderRecordDocument renders a case record for the pager: the labelled
// fields followed by the raw JSON.
func renderRecordDocument(rec *domain.CaseRecord) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	var doc strings.Builder
	doc.WriteString(titleStyle.Render(fmt.Sprintf("Case %s", rec.CaseNumber)))
	doc.WriteString("\n")

	for _, f := range views.RecordFields(rec) {
		doc.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(fmt.Sprintf("%-12s", f.Name)), f.Value))
	}

	doc.WriteString(sectionStyle.Render("Raw"))
	doc.WriteString("\n")
	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		raw = []byte(err.Error())
	}
	doc.Write(raw)
	doc.WriteString("\n")

	return doc.String()
}

// PagerOps shows documents in the ov pager
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new pager operations instance
func NewPagerOps(program *tea.Program) *PagerOps {
	return &PagerOps{program: program}
}

// Show releases the terminal and runs ov on content until the user quits it
func (p *PagerOps) Show(content string) error {
	if p.program == nil {
		return errNoProgram
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Give ov time to leave its screen before Bubble Tea takes over
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
