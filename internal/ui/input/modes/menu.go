package modes

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"casefinder/internal/selector"
	"casefinder/internal/ui/input/types"
)

// MenuMode picks the active search mode. The active option is disabled:
// the cursor skips it and it can't be chosen.
type MenuMode struct {
	index int
}

func NewMenuMode() *MenuMode {
	return &MenuMode{}
}

func (m *MenuMode) Name() string {
	return "menu"
}

func (m *MenuMode) Enter(ctx types.Context) []types.Action {
	m.index = 0
	options := ctx.Options()
	for i, opt := range options {
		if !opt.Disabled {
			m.index = i
			break
		}
	}
	return []types.Action{types.UpdateMenuIndexAction{Index: m.index}}
}

func (m *MenuMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *MenuMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	options := ctx.Options()

	switch key := msg.String(); key {
	case "ctrl+c":
		return []types.Action{types.QuitAction{}}, true

	case "esc", "q", "tab":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch}}, true

	case "enter":
		return m.choose(options, m.index), true

	case "up", "k":
		m.move(options, -1)
		return []types.Action{types.UpdateMenuIndexAction{Index: m.index}}, true

	case "down", "j":
		m.move(options, 1)
		return []types.Action{types.UpdateMenuIndexAction{Index: m.index}}, true

	case "f1":
		return []types.Action{types.ToggleHelpAction{}}, true

	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(options) {
			return m.choose(options, n-1), true
		}
	}

	// Swallow everything else while the menu is open
	return nil, true
}

// CurrentIndex returns the highlighted option
func (m *MenuMode) CurrentIndex() int {
	return m.index
}

func (m *MenuMode) choose(options []selector.OptionState, i int) []types.Action {
	if i < 0 || i >= len(options) || options[i].Disabled {
		return nil
	}
	m.index = i
	return []types.Action{
		types.SelectModeAction{Mode: options[i].Value},
		types.ChangeModeAction{Mode: types.ModeSearch},
	}
}

// move steps the cursor by delta, wrapping and skipping disabled options
func (m *MenuMode) move(options []selector.OptionState, delta int) {
	n := len(options)
	if n == 0 {
		return
	}
	i := m.index
	for range n {
		i = (i + delta + n) % n
		if !options[i].Disabled {
			m.index = i
			return
		}
	}
}
