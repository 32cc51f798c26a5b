package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"casefinder/internal/ui/input/modes"
	"casefinder/internal/ui/input/types"
)

// inputWidth fixes the field width so placeholders render in full
const inputWidth = 40

type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	textInput   *textinput.Model // Shared text input for the search mode
	menu        *modes.MenuMode
}

func New() *Handler {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Width = inputWidth
	ti.Focus()

	h := &Handler{
		currentMode: types.ModeSearch,
		textInput:   &ti,
		modes:       make(map[types.Mode]types.ModeHandler),
		menu:        modes.NewMenuMode(),
	}

	h.modes[types.ModeSearch] = modes.NewSearchMode(h.textInput)
	h.modes[types.ModeMenu] = h.menu

	return h
}

func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)

	var cmd tea.Cmd
	var allActions []types.Action

	for _, action := range actions {
		if changeMode, ok := action.(types.ChangeModeAction); ok {
			allActions = append(allActions, h.changeMode(changeMode.Mode, ctx)...)
			if h.isTextMode(h.currentMode) {
				cmd = textinput.Blink
			}
		} else {
			allActions = append(allActions, action)
		}
	}

	// Keys the search mode didn't consume are typed into the field
	if !consumed && h.isTextMode(h.currentMode) {
		*h.textInput, cmd = h.textInput.Update(msg)
		allActions = append(allActions, types.UpdateTextAction{Text: h.textInput.Value()})
	}

	return allActions, cmd
}

func (h *Handler) changeMode(mode types.Mode, ctx types.Context) []types.Action {
	var out []types.Action
	if current := h.modes[h.currentMode]; current != nil {
		out = append(out, current.Exit(ctx)...)
	}
	h.currentMode = mode
	if next := h.modes[h.currentMode]; next != nil {
		out = append(out, next.Enter(ctx)...)
	}
	return out
}

func (h *Handler) CurrentMode() types.Mode {
	if h == nil {
		return types.ModeSearch
	}
	return h.currentMode
}

// MenuIndex returns the highlighted option of the mode menu
func (h *Handler) MenuIndex() int {
	return h.menu.CurrentIndex()
}

func (h *Handler) isTextMode(mode types.Mode) bool {
	return mode == types.ModeSearch
}

// TextInput returns the shared text input model
func (h *Handler) TextInput() *textinput.Model {
	return h.textInput
}

// SetPlaceholder updates the hint shown in the empty field
func (h *Handler) SetPlaceholder(p string) {
	h.textInput.Placeholder = p
}

// ClearText empties the field without changing focus
func (h *Handler) ClearText() {
	h.textInput.Reset()
}

// Update handles non-keyboard messages for text input (cursor blink)
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if h.isTextMode(h.currentMode) {
		var cmd tea.Cmd
		*h.textInput, cmd = h.textInput.Update(msg)
		return cmd
	}
	return nil
}
