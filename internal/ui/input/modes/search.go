package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"casefinder/internal/ui/input/types"
)

// SearchMode is the text entry mode for the case identifier
type SearchMode struct {
	textInput *textinput.Model
}

func NewSearchMode(ti *textinput.Model) *SearchMode {
	return &SearchMode{textInput: ti}
}

func (m *SearchMode) Name() string {
	return "search"
}

func (m *SearchMode) Enter(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Focus()
		m.textInput.Prompt = "" // Prompt is handled in the UI layer
	}
	return nil
}

func (m *SearchMode) Exit(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Blur()
	}
	return nil
}

func (m *SearchMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{}}, true
	case "enter":
		text := ""
		if m.textInput != nil {
			text = m.textInput.Value()
		}
		return []types.Action{types.SubmitTextAction{Text: text}}, true
	case "tab":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeMenu}}, true
	case "esc":
		return []types.Action{types.DismissAction{}}, true
	case "f1":
		return []types.Action{types.ToggleHelpAction{}}, true
	case "ctrl+o":
		if !ctx.HasResult() {
			return nil, true
		}
		return []types.Action{types.OpenPagerAction{}}, true
	default:
		// Let the main handler update the text input
		return nil, false
	}
}
