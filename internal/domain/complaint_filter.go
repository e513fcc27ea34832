package domain

// ComplaintFilter narrows a complaint listing. Empty fields do not constrain and a
// non-positive Limit means no limit.
type ComplaintFilter struct {
	Status     ComplaintStatus
	Priority   ComplaintPriority
	Department string
	Category   string
	Search     string
	Limit      int
	Offset     int
}
