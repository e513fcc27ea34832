package domain

import "time"

// ComplaintField names the independently mutable complaint attributes.
type ComplaintField string

const (
	FieldStatus   ComplaintField = "status"
	FieldPriority ComplaintField = "priority"
)

// ComplaintHistory is an immutable audit entry written by the history subscriber.
type ComplaintHistory struct {
	ID        string
	Reference string
	Field     ComplaintField
	OldValue  string
	NewValue  string
	ChangedBy string
	CreatedAt time.Time
}
