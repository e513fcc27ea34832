package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	StatusPending      ComplaintStatus = "pending"
	StatusAcknowledged ComplaintStatus = "acknowledged"
	StatusInProgress   ComplaintStatus = "in_progress"
	StatusResolved     ComplaintStatus = "resolved"
	StatusClosed       ComplaintStatus = "closed"
	StatusRejected     ComplaintStatus = "rejected"
)

// ComplaintStatuses lists every status in display order.
var ComplaintStatuses = []ComplaintStatus{
	StatusPending,
	StatusAcknowledged,
	StatusInProgress,
	StatusResolved,
	StatusClosed,
	StatusRejected,
}

// Valid reports enumeration membership.
func (s ComplaintStatus) Valid() bool {
	for _, candidate := range ComplaintStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Terminal reports whether the status ends the workflow by convention.
// Nothing prevents moving out of a terminal status.
func (s ComplaintStatus) Terminal() bool {
	return s == StatusResolved || s == StatusClosed || s == StatusRejected
}

// ComplaintPriority enumerates urgency.
type ComplaintPriority string

const (
	PriorityLow      ComplaintPriority = "low"
	PriorityMedium   ComplaintPriority = "medium"
	PriorityHigh     ComplaintPriority = "high"
	PriorityCritical ComplaintPriority = "critical"
)

// ComplaintPriorities lists priorities from lowest to highest.
var ComplaintPriorities = []ComplaintPriority{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
	PriorityCritical,
}

// Valid reports enumeration membership.
func (p ComplaintPriority) Valid() bool {
	return p.Rank() >= 0
}

// Rank orders priorities, low=0 .. critical=3. Unknown values rank -1.
func (p ComplaintPriority) Rank() int {
	for i, candidate := range ComplaintPriorities {
		if candidate == p {
			return i
		}
	}
	return -1
}

// GeoPoint is an optional complaint location.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// Complaint is the aggregate for citizen reports. Citizen identity is freeform and
// intentionally not linked to an Account.
type Complaint struct {
	Reference     string
	Title         string
	Description   string
	Category      string
	CitizenName   string
	CitizenEmail  string
	CitizenPhone  string
	Location      *GeoPoint
	Address       string
	AttachmentRef string
	Status        ComplaintStatus
	Priority      ComplaintPriority
	Department    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ResolvedAt    *time.Time
}
