package events

import (
	"time"

	"github.com/spec-kit/complaint-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated         EventType = "complaint_created"
	EventComplaintStatusChanged   EventType = "complaint_status_changed"
	EventComplaintPriorityChanged EventType = "complaint_priority_changed"
	EventAccountRoleChanged       EventType = "account_role_changed"
)

// Event represents a domain event emitted by services. Subject is the complaint
// reference or, for account events, the account handle. Actor is the caller's handle,
// empty for anonymous submissions.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"`
	Actor     string      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	Title        string                   `json:"title"`
	Category     string                   `json:"category"`
	Department   string                   `json:"department,omitempty"`
	Priority     domain.ComplaintPriority `json:"priority"`
	CitizenName  string                   `json:"citizen_name"`
	CitizenEmail string                   `json:"citizen_email,omitempty"`
	Address      string                   `json:"address,omitempty"`
}

// ComplaintFieldChangedPayload is shared by status and priority changes.
type ComplaintFieldChangedPayload struct {
	Field        domain.ComplaintField `json:"field"`
	OldValue     string                `json:"old_value"`
	NewValue     string                `json:"new_value"`
	Title        string                `json:"title"`
	CitizenName  string                `json:"citizen_name"`
	CitizenEmail string                `json:"citizen_email,omitempty"`
}

// AccountRoleChangedPayload payload.
type AccountRoleChangedPayload struct {
	OldRole    string `json:"old_role"`
	NewRole    string `json:"new_role"`
	Department string `json:"department,omitempty"`
}
