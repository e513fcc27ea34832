// Package lifecycle validates and applies complaint status and priority changes.
// Authorization is the caller's job and must happen before Parse is consulted.
package lifecycle

import (
	"strings"
	"time"

	"github.com/spec-kit/complaint-portal/internal/domain"
	apperrors "github.com/spec-kit/complaint-portal/pkg/util"
)

// Change is a validated single-field update.
type Change struct {
	Field    domain.ComplaintField
	Status   domain.ComplaintStatus
	Priority domain.ComplaintPriority
}

// Value returns the new value as a string.
func (c Change) Value() string {
	if c.Field == domain.FieldStatus {
		return string(c.Status)
	}
	return string(c.Priority)
}

// Parse checks enumeration membership. Any status may follow any other.
func Parse(field, value string) (Change, error) {
	value = strings.TrimSpace(value)
	switch domain.ComplaintField(strings.TrimSpace(field)) {
	case domain.FieldStatus:
		status := domain.ComplaintStatus(value)
		if !status.Valid() {
			return Change{}, apperrors.NewValidationError("status", "unknown status", map[string]any{
				"value":   value,
				"allowed": domain.ComplaintStatuses,
			})
		}
		return Change{Field: domain.FieldStatus, Status: status}, nil
	case domain.FieldPriority:
		priority := domain.ComplaintPriority(value)
		if !priority.Valid() {
			return Change{}, apperrors.NewValidationError("priority", "unknown priority", map[string]any{
				"value":   value,
				"allowed": domain.ComplaintPriorities,
			})
		}
		return Change{Field: domain.FieldPriority, Priority: priority}, nil
	default:
		return Change{}, apperrors.NewValidationError("field", "field must be status or priority", map[string]any{
			"value": field,
		})
	}
}

// Apply sets the changed field and the modification time and returns the previous
// value. Same-value changes still bump UpdatedAt. The first move into resolved stamps
// ResolvedAt, which survives a reopen.
func Apply(c *domain.Complaint, change Change, now time.Time) string {
	now = now.UTC()
	var previous string
	switch change.Field {
	case domain.FieldStatus:
		previous = string(c.Status)
		c.Status = change.Status
		if change.Status == domain.StatusResolved && c.ResolvedAt == nil {
			c.ResolvedAt = &now
		}
	case domain.FieldPriority:
		previous = string(c.Priority)
		c.Priority = change.Priority
	}
	c.UpdatedAt = now
	return previous
}
