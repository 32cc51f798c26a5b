package domain

import "time"

// SearchType identifies how a case is looked up
type SearchType string

const (
	SearchByCaseNumber SearchType = "CaseNumber"
	SearchByID         SearchType = "Id"
)

// CaseRecord is the case returned by the lookup service.
// Only CaseNumber is needed by the selector; the rest is shown to the user.
type CaseRecord struct {
	ID          string    `json:"Id"`
	CaseNumber  string    `json:"CaseNumber"`
	Subject     string    `json:"Subject,omitempty"`
	Status      string    `json:"Status,omitempty"`
	Priority    string    `json:"Priority,omitempty"`
	Origin      string    `json:"Origin,omitempty"`
	CreatedDate time.Time `json:"CreatedDate,omitempty"`
}

// Severity is the visual variant of a notification
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a toast request sent to whatever hosts the selector
type Notification struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}
