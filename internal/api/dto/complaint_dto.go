package dto

import (
	"time"

	"github.com/spec-kit/complaint-portal/internal/domain"
	"github.com/spec-kit/complaint-portal/internal/service"
)

// LocationPayload is a latitude/longitude pair.
type LocationPayload struct {
	Latitude  float64 `json:"lat" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Title         string                   `json:"title" validate:"required,max=200"`
	Description   string                   `json:"description" validate:"required,max=5000"`
	Category      string                   `json:"category" validate:"required"`
	CitizenName   string                   `json:"citizen_name" validate:"required,max=120"`
	CitizenEmail  string                   `json:"citizen_email" validate:"omitempty,email"`
	CitizenPhone  string                   `json:"citizen_phone" validate:"omitempty,max=32"`
	Location      *LocationPayload         `json:"location" validate:"omitempty"`
	Address       string                   `json:"address" validate:"max=500"`
	AttachmentRef string                   `json:"attachment_ref" validate:"max=500"`
	Priority      domain.ComplaintPriority `json:"priority"`
}

// Input converts the payload into a service input.
func (r CreateComplaintRequest) Input() service.ComplaintCreateInput {
	input := service.ComplaintCreateInput{
		Title:         r.Title,
		Description:   r.Description,
		Category:      r.Category,
		CitizenName:   r.CitizenName,
		CitizenEmail:  r.CitizenEmail,
		CitizenPhone:  r.CitizenPhone,
		Address:       r.Address,
		AttachmentRef: r.AttachmentRef,
		Priority:      r.Priority,
	}
	if r.Location != nil {
		input.Location = &domain.GeoPoint{Latitude: r.Location.Latitude, Longitude: r.Location.Longitude}
	}
	return input
}

// UpdateComplaintRequest sets one of the mutable fields. The value is checked by the
// service after authorization.
type UpdateComplaintRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// FeedbackRequest payload.
type FeedbackRequest struct {
	Rating         int    `json:"rating" validate:"required"`
	Comments       string `json:"comments" validate:"max=2000"`
	WouldRecommend bool   `json:"would_recommend"`
}

// ComplaintResponse is the public complaint representation. Contact fields are empty
// when the caller may not see them.
type ComplaintResponse struct {
	Reference     string                   `json:"reference"`
	Title         string                   `json:"title"`
	Description   string                   `json:"description"`
	Category      string                   `json:"category"`
	CitizenName   string                   `json:"citizen_name"`
	CitizenEmail  string                   `json:"citizen_email,omitempty"`
	CitizenPhone  string                   `json:"citizen_phone,omitempty"`
	Location      *LocationPayload         `json:"location,omitempty"`
	Address       string                   `json:"address,omitempty"`
	AttachmentRef string                   `json:"attachment_ref,omitempty"`
	Status        domain.ComplaintStatus   `json:"status"`
	Priority      domain.ComplaintPriority `json:"priority"`
	Department    *string                  `json:"department"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
	ResolvedAt    *time.Time               `json:"resolved_at"`
}

// NearbyComplaintResponse adds the distance from the search point.
type NearbyComplaintResponse struct {
	ComplaintResponse
	DistanceKm float64 `json:"distance_km"`
}

// HistoryResponse is one audit entry.
type HistoryResponse struct {
	Field     domain.ComplaintField `json:"field"`
	OldValue  string                `json:"old_value"`
	NewValue  string                `json:"new_value"`
	ChangedBy string                `json:"changed_by,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

// FeedbackResponse echoes stored feedback.
type FeedbackResponse struct {
	Reference      string    `json:"reference"`
	Rating         int       `json:"rating"`
	Comments       string    `json:"comments,omitempty"`
	WouldRecommend bool      `json:"would_recommend"`
	CreatedAt      time.Time `json:"created_at"`
}

// PageMeta describes a paginated listing.
type PageMeta struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Complaint maps a domain complaint.
func Complaint(c *domain.Complaint) ComplaintResponse {
	resp := ComplaintResponse{
		Reference:     c.Reference,
		Title:         c.Title,
		Description:   c.Description,
		Category:      c.Category,
		CitizenName:   c.CitizenName,
		CitizenEmail:  c.CitizenEmail,
		CitizenPhone:  c.CitizenPhone,
		Address:       c.Address,
		AttachmentRef: c.AttachmentRef,
		Status:        c.Status,
		Priority:      c.Priority,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		ResolvedAt:    c.ResolvedAt,
	}
	if c.Department != "" {
		department := c.Department
		resp.Department = &department
	}
	if c.Location != nil {
		resp.Location = &LocationPayload{Latitude: c.Location.Latitude, Longitude: c.Location.Longitude}
	}
	return resp
}

// Complaints maps a slice of complaints.
func Complaints(items []domain.Complaint) []ComplaintResponse {
	out := make([]ComplaintResponse, 0, len(items))
	for i := range items {
		out = append(out, Complaint(&items[i]))
	}
	return out
}

// Nearby maps a nearby search result.
func Nearby(items []service.NearbyComplaint) []NearbyComplaintResponse {
	out := make([]NearbyComplaintResponse, 0, len(items))
	for i := range items {
		out = append(out, NearbyComplaintResponse{
			ComplaintResponse: Complaint(&items[i].Complaint),
			DistanceKm:        items[i].DistanceKm,
		})
	}
	return out
}

// History maps audit entries.
func History(entries []domain.ComplaintHistory) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryResponse{
			Field:     e.Field,
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			ChangedBy: e.ChangedBy,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

// Feedback maps stored feedback.
func Feedback(f *domain.Feedback) FeedbackResponse {
	return FeedbackResponse{
		Reference:      f.Reference,
		Rating:         f.Rating,
		Comments:       f.Comments,
		WouldRecommend: f.WouldRecommend,
		CreatedAt:      f.CreatedAt,
	}
}
