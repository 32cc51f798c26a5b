package selector

import (
	"fmt"
	"regexp"

	"casefinder/internal/domain"
)

// Validation is the format a mode's input must match
type Validation struct {
	Pattern *regexp.Regexp
	Example string
}

// ModeOption describes one selectable search mode. Options are configuration
// and never change after construction; which one is active lives in the
// Selector.
type ModeOption struct {
	Value      domain.SearchType
	Label      string
	Validation Validation
}

var (
	caseNumberPattern = regexp.MustCompile(`^\d{8}$`)
	caseIDPattern     = regexp.MustCompile(`^500[0-9A-Za-z]{15}$`)
)

// DefaultModes returns the fixed case number / case ID modes
func DefaultModes() []ModeOption {
	return []ModeOption{
		{
			Value: domain.SearchByCaseNumber,
			Label: "Case Number",
			Validation: Validation{
				Pattern: caseNumberPattern,
				Example: "10010010",
			},
		},
		{
			Value: domain.SearchByID,
			Label: "Case ID",
			Validation: Validation{
				Pattern: caseIDPattern,
				Example: "500Ab00000abABCAB0",
			},
		},
	}
}

// ValidationError is returned when input does not match a mode's format
type ValidationError struct {
	Mode    domain.SearchType
	Input   string
	Example string
}

func (e *ValidationError) Error() string {
	if e.Example == "" {
		return fmt.Sprintf("unknown search type %q", e.Mode)
	}
	return fmt.Sprintf("invalid %s %q: enter a valid format, e.g., %s", e.Mode, e.Input, e.Example)
}

// FindMode returns the option with the given value
func FindMode(modes []ModeOption, value domain.SearchType) (ModeOption, bool) {
	for _, m := range modes {
		if m.Value == value {
			return m, true
		}
	}
	return ModeOption{}, false
}

// Validate checks identifier against the default mode table
func Validate(searchType domain.SearchType, identifier string) error {
	mode, ok := FindMode(DefaultModes(), searchType)
	if !ok {
		return &ValidationError{Mode: searchType, Input: identifier}
	}
	if !mode.Validation.Pattern.MatchString(identifier) {
		return &ValidationError{Mode: searchType, Input: identifier, Example: mode.Validation.Example}
	}
	return nil
}
