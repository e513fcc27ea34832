// Package stats projects complaint sets into summary counts.
package stats

import "github.com/spec-kit/complaint-portal/internal/domain"

// Statistics summarizes a visible complaint set.
type Statistics struct {
	Total      int                              `json:"total"`
	ByStatus   map[domain.ComplaintStatus]int   `json:"by_status"`
	ByCategory map[string]int                   `json:"by_category"`
	ByPriority map[domain.ComplaintPriority]int `json:"by_priority"`
}

// Aggregate counts complaints. Every status and priority is present, zero or not;
// categories only appear when they occur.
func Aggregate(complaints []domain.Complaint) Statistics {
	result := Statistics{
		Total:      len(complaints),
		ByStatus:   make(map[domain.ComplaintStatus]int, len(domain.ComplaintStatuses)),
		ByCategory: make(map[string]int),
		ByPriority: make(map[domain.ComplaintPriority]int, len(domain.ComplaintPriorities)),
	}
	for _, status := range domain.ComplaintStatuses {
		result.ByStatus[status] = 0
	}
	for _, priority := range domain.ComplaintPriorities {
		result.ByPriority[priority] = 0
	}
	for _, c := range complaints {
		result.ByStatus[c.Status]++
		result.ByPriority[c.Priority]++
		result.ByCategory[c.Category]++
	}
	return result
}
