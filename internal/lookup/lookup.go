package lookup

import (
	"context"
	"errors"

	"casefinder/internal/domain"
)

// Service resolves an identifier and search type to a case record
type Service interface {
	GetCaseDetails(ctx context.Context, identifier string, searchType domain.SearchType) (*domain.CaseRecord, error)
}

// LookupError is the failure reported by the lookup service: no matching
// record, a malformed identifier, or a transport problem.
type LookupError struct {
	Message    string
	StatusCode int // zero when the request never got a response
	Err        error
}

func (e *LookupError) Error() string {
	return e.Message
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// AsLookupError normalizes any error into a *LookupError
func AsLookupError(err error) *LookupError {
	if err == nil {
		return nil
	}
	var le *LookupError
	if errors.As(err, &le) {
		return le
	}
	if errors.Is(err, context.Canceled) {
		return &LookupError{Message: "lookup canceled", Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &LookupError{Message: "lookup timed out", Err: err}
	}
	return &LookupError{Message: err.Error(), Err: err}
}

// ServiceFunc adapts a function to Service
type ServiceFunc func(ctx context.Context, identifier string, searchType domain.SearchType) (*domain.CaseRecord, error)

func (f ServiceFunc) GetCaseDetails(ctx context.Context, identifier string, searchType domain.SearchType) (*domain.CaseRecord, error) {
	return f(ctx, identifier, searchType)
}
