package input

import (
	"casefinder/internal/selector"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	Selector *selector.Selector
}

func (c *ModelContext) Options() []selector.OptionState {
	return c.Selector.Options()
}

func (c *ModelContext) HasResult() bool {
	return c.Selector.LastResult() != nil
}
