package types

import "casefinder/internal/domain"

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

// SubmitTextAction commits the identifier typed in the search field
type SubmitTextAction struct {
	Text string
}

func (a SubmitTextAction) Type() string { return "submit_text" }

// Menu actions
type SelectModeAction struct {
	Mode domain.SearchType
}

func (a SelectModeAction) Type() string { return "select_mode" }

type UpdateMenuIndexAction struct {
	Index int
}

func (a UpdateMenuIndexAction) Type() string { return "update_menu_index" }

// Other actions
type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type DismissAction struct{}

func (a DismissAction) Type() string { return "dismiss" }

type OpenPagerAction struct{}

func (a OpenPagerAction) Type() string { return "open_pager" }

type QuitAction struct{}

func (a QuitAction) Type() string { return "quit" }
