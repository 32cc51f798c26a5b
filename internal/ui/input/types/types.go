package types

import (
	tea "github.com/charmbracelet/bubbletea"

	"casefinder/internal/selector"
)

// Mode represents an input mode
type Mode int

const (
	ModeSearch Mode = iota
	ModeMenu
)

func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeMenu:
		return "menu"
	default:
		return "unknown"
	}
}

// Action represents a command the model should execute
type Action interface {
	Type() string
}

// Context provides read-only access to model state needed for input handling
type Context interface {
	// Options are the search modes in menu order, the active one disabled
	Options() []selector.OptionState
	HasResult() bool
}

// ModeHandler handles input for a specific mode
type ModeHandler interface {
	// HandleKey processes a key message and returns actions and whether to consume the event
	HandleKey(msg tea.KeyMsg, ctx Context) ([]Action, bool)

	// Enter is called when entering this mode
	Enter(ctx Context) []Action

	// Exit is called when leaving this mode
	Exit(ctx Context) []Action

	// Name returns the mode name for display
	Name() string
}
