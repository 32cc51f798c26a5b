package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventModeSelected          EventType = "ModeSelected"
	EventInputRejected         EventType = "InputRejected"
	EventLookupRequested       EventType = "LookupRequested"
	EventLookupSucceeded       EventType = "LookupSucceeded"
	EventLookupFailed          EventType = "LookupFailed"
	EventNotificationRequested EventType = "NotificationRequested"
	EventConfigLoaded          EventType = "ConfigLoaded"
	EventConfigSaved           EventType = "ConfigSaved"
	EventError                 EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ModeSelectedEvent is emitted when the user picks a search mode
type ModeSelectedEvent struct {
	Mode SearchType
}

func (e ModeSelectedEvent) Type() EventType { return EventModeSelected }

// InputRejectedEvent is emitted when a submitted value fails validation
type InputRejectedEvent struct {
	Mode  SearchType
	Input string
}

func (e InputRejectedEvent) Type() EventType { return EventInputRejected }

// LookupRequestedEvent is emitted when a valid value is sent to the lookup service
type LookupRequestedEvent struct {
	RequestID  uint64
	Identifier string
	Mode       SearchType
}

func (e LookupRequestedEvent) Type() EventType { return EventLookupRequested }

// LookupSucceededEvent is emitted when the lookup service returned a record
type LookupSucceededEvent struct {
	RequestID uint64
	Record    CaseRecord
}

func (e LookupSucceededEvent) Type() EventType { return EventLookupSucceeded }

// LookupFailedEvent is emitted when the lookup service reported an error
type LookupFailedEvent struct {
	RequestID uint64
	Message   string
}

func (e LookupFailedEvent) Type() EventType { return EventLookupFailed }

// NotificationRequestedEvent asks the host to show a toast
type NotificationRequestedEvent struct {
	Notification Notification
}

func (e NotificationRequestedEvent) Type() EventType { return EventNotificationRequested }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
