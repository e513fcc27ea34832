package domain

import "time"

// Feedback is a citizen's satisfaction rating for a finished complaint.
type Feedback struct {
	Reference      string
	Rating         int
	Comments       string
	WouldRecommend bool
	CreatedAt      time.Time
}
