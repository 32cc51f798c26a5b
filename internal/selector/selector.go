package selector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"casefinder/internal/domain"
	"casefinder/internal/eventbus"
	"casefinder/internal/lookup"
	"casefinder/internal/notify"
)

// Key is the key that triggered a submission
type Key string

// KeyEnter is the commit key. Submissions with any other key are ignored.
const KeyEnter Key = "enter"

const (
	successTitle = "Success!"
	errorTitle   = "Error!"
)

// OptionState is a mode as it should be rendered in the mode menu.
// The active mode is disabled so it can't be picked again.
type OptionState struct {
	ModeOption
	Disabled bool
}

// Request is a lookup the caller must run with Selector.Run
type Request struct {
	ID         uint64
	Identifier string
	SearchType domain.SearchType

	ctx context.Context
}

// Outcome is the result of running a Request
type Outcome struct {
	RequestID uint64
	Record    *domain.CaseRecord
	Err       *lookup.LookupError
}

// Submission describes what Submit did
type Submission struct {
	// Handled is false when the key was not the commit key; nothing changed.
	Handled bool
	// Valid reports whether the input matched the active mode's format.
	Valid bool
	// Busy is set when valid input was not dispatched because a lookup is
	// already in flight.
	Busy bool
	// Request is the lookup to run, nil when nothing should be looked up.
	Request *Request
	// ClearInput tells the host to empty the text field.
	ClearInput bool
}

// Selector is the search mode selection and validation state machine.
// It is not safe for concurrent use: all methods except Run must be called
// from the goroutine that owns the form.
type Selector struct {
	modes       []ModeOption
	defaultMode domain.SearchType

	active        domain.SearchType
	inputHasError bool
	lastResult    *domain.CaseRecord
	resultVisible bool

	nextID   uint64
	inFlight *Request
	cancel   context.CancelFunc

	baseCtx  context.Context
	lookup   lookup.Service
	notifier notify.Notifier
	bus      eventbus.EventBus
	logger   *zap.Logger
}

// SelectorOption configures a Selector
type SelectorOption func(*Selector)

// WithLookup sets the lookup collaborator. Without one the selector only
// validates input.
func WithLookup(svc lookup.Service) SelectorOption {
	return func(s *Selector) { s.lookup = svc }
}

// WithNotifier sets where lookup notifications go
func WithNotifier(n notify.Notifier) SelectorOption {
	return func(s *Selector) { s.notifier = n }
}

// WithEventBus publishes selector events on bus
func WithEventBus(bus eventbus.EventBus) SelectorOption {
	return func(s *Selector) { s.bus = bus }
}

func WithLogger(l *zap.Logger) SelectorOption {
	return func(s *Selector) { s.logger = l }
}

// WithDefaultMode overrides the mode selected on initialization
func WithDefaultMode(v domain.SearchType) SelectorOption {
	return func(s *Selector) { s.defaultMode = v }
}

// WithContext sets the parent context of every lookup
func WithContext(ctx context.Context) SelectorOption {
	return func(s *Selector) { s.baseCtx = ctx }
}

// New creates a selector over modes (DefaultModes when empty) and selects
// the default mode.
func New(modes []ModeOption, opts ...SelectorOption) *Selector {
	if len(modes) == 0 {
		modes = DefaultModes()
	}
	s := &Selector{
		modes:       append([]ModeOption(nil), modes...),
		defaultMode: domain.SearchByCaseNumber,
		baseCtx:     context.Background(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("selector")

	s.SelectMode(s.defaultMode)
	return s
}

// Modes returns the configured modes
func (s *Selector) Modes() []ModeOption {
	return append([]ModeOption(nil), s.modes...)
}

// Options returns every mode with its disabled flag derived from the active
// mode. At most one option is disabled.
func (s *Selector) Options() []OptionState {
	out := make([]OptionState, len(s.modes))
	for i, m := range s.modes {
		out[i] = OptionState{ModeOption: m, Disabled: m.Value == s.active}
	}
	return out
}

// Active returns the active mode, false when none is selected
func (s *Selector) Active() (ModeOption, bool) {
	if s.active == "" {
		return ModeOption{}, false
	}
	return FindMode(s.modes, s.active)
}

func (s *Selector) ActiveValue() domain.SearchType { return s.active }
func (s *Selector) InputHasError() bool            { return s.inputHasError }
func (s *Selector) ResultVisible() bool            { return s.resultVisible }
func (s *Selector) HasLookup() bool                { return s.lookup != nil }

// LastResult returns the most recent record found, nil before any success
func (s *Selector) LastResult() *domain.CaseRecord { return s.lastResult }

// Pending reports whether a lookup is in flight
func (s *Selector) Pending() bool { return s.inFlight != nil }

// Placeholder is the hint shown in the empty input
func (s *Selector) Placeholder() string {
	mode, ok := s.Active()
	if !ok {
		return ""
	}
	return fmt.Sprintf("Insert the %s here.", mode.Label)
}

// InputErrorMessage is shown under the input when validation failed
func (s *Selector) InputErrorMessage() string {
	mode, ok := s.Active()
	if !ok {
		return ""
	}
	return fmt.Sprintf("Enter a valid format, e.g., %s", mode.Validation.Example)
}

// SelectMode makes v the active mode and resets the form. An unknown value
// leaves no mode active. Any lookup in flight is canceled and its outcome
// will be ignored. The caller must clear its text input.
func (s *Selector) SelectMode(v domain.SearchType) bool {
	s.abandonInFlight()

	_, found := FindMode(s.modes, v)
	if found {
		s.active = v
	} else {
		s.active = ""
		s.logger.Debug("unknown search mode selected", zap.String("mode", string(v)))
	}
	s.inputHasError = false
	s.resultVisible = false

	if found {
		s.publish(eventbus.ModeSelectedEvent{Mode: v})
	}
	return found
}

// Submit validates raw when key is the commit key. Valid input yields a
// Request when a lookup collaborator is configured and none is in flight.
func (s *Selector) Submit(raw string, key Key) Submission {
	if key != KeyEnter {
		return Submission{}
	}

	sub := Submission{Handled: true, ClearInput: true}

	mode, ok := s.Active()
	if !ok {
		return sub
	}

	if !mode.Validation.Pattern.MatchString(raw) {
		s.inputHasError = true
		s.resultVisible = false
		s.publish(eventbus.InputRejectedEvent{Mode: mode.Value, Input: raw})
		return sub
	}

	s.inputHasError = false
	sub.Valid = true

	if s.lookup == nil {
		return sub
	}
	if s.inFlight != nil {
		s.logger.Debug("lookup already in flight, ignoring submission",
			zap.Uint64("request_id", s.inFlight.ID))
		sub.Busy = true
		return sub
	}

	ctx, cancel := context.WithCancel(s.baseCtx)
	s.nextID++
	req := &Request{
		ID:         s.nextID,
		Identifier: raw,
		SearchType: mode.Value,
		ctx:        ctx,
	}
	s.inFlight = req
	s.cancel = cancel

	s.publish(eventbus.LookupRequestedEvent{RequestID: req.ID, Identifier: raw, Mode: mode.Value})
	sub.Request = req
	return sub
}

// Run performs the lookup for req. It only reads immutable state and may be
// called from any goroutine.
func (s *Selector) Run(ctx context.Context, req *Request) Outcome {
	out := Outcome{RequestID: req.ID}
	if s.lookup == nil {
		out.Err = &lookup.LookupError{Message: "no lookup service configured"}
		return out
	}

	parent := req.ctx
	if parent == nil {
		parent = context.Background()
	}
	runCtx, cancel := context.WithCancel(parent)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	rec, err := s.lookup.GetCaseDetails(runCtx, req.Identifier, req.SearchType)
	switch {
	case err != nil:
		out.Err = lookup.AsLookupError(err)
	case rec == nil:
		out.Err = &lookup.LookupError{Message: "no record returned"}
	default:
		out.Record = rec
	}
	return out
}

// HandleLookupResult applies the outcome of the in-flight request and
// requests a notification. Outcomes of abandoned requests are dropped and
// false is returned. Validation state is never changed here.
func (s *Selector) HandleLookupResult(o Outcome) bool {
	if s.inFlight == nil || s.inFlight.ID != o.RequestID {
		s.logger.Debug("dropping stale lookup outcome", zap.Uint64("request_id", o.RequestID))
		return false
	}
	s.cancel()
	s.inFlight = nil
	s.cancel = nil

	if o.Err == nil && o.Record == nil {
		o.Err = &lookup.LookupError{Message: "no record returned"}
	}
	if o.Err != nil {
		s.resultVisible = false
		s.logger.Info("lookup failed",
			zap.Uint64("request_id", o.RequestID),
			zap.String("message", o.Err.Message))
		s.publish(eventbus.LookupFailedEvent{RequestID: o.RequestID, Message: o.Err.Message})
		s.notify(domain.Notification{
			Title:    errorTitle,
			Message:  fmt.Sprintf("%s - Case was not found!", o.Err.Message),
			Severity: domain.SeverityError,
		})
		return true
	}

	s.lastResult = o.Record
	s.resultVisible = true
	s.publish(eventbus.LookupSucceededEvent{RequestID: o.RequestID, Record: *o.Record})
	s.notify(domain.Notification{
		Title:    successTitle,
		Message:  fmt.Sprintf("%s - Case was found!", o.Record.CaseNumber),
		Severity: domain.SeveritySuccess,
	})
	return true
}

// HideResult hides the result card without forgetting the record
func (s *Selector) HideResult() {
	s.resultVisible = false
}

// Close cancels any lookup in flight
func (s *Selector) Close() {
	s.abandonInFlight()
}

func (s *Selector) abandonInFlight() {
	if s.inFlight == nil {
		return
	}
	s.logger.Debug("abandoning lookup", zap.Uint64("request_id", s.inFlight.ID))
	s.cancel()
	s.inFlight = nil
	s.cancel = nil
}

func (s *Selector) notify(n domain.Notification) {
	if s.notifier != nil {
		s.notifier.Notify(n)
	}
}

func (s *Selector) publish(e eventbus.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}
