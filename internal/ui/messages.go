package ui

import (
	"casefinder/internal/eventbus"
	"casefinder/internal/selector"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// lookupResultMsg carries the outcome of a lookup run in a command
type lookupResultMsg struct {
	outcome selector.Outcome
}

// toastExpiredMsg removes the toast with the given id
type toastExpiredMsg struct {
	id int
}

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	err error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
