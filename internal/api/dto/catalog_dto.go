package dto

import "github.com/spec-kit/complaint-portal/internal/domain"

// CategoryResponse describes a catalog entry.
type CategoryResponse struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	Color       string  `json:"color,omitempty"`
	Department  *string `json:"department"`
}

// Categories maps the category catalog.
func Categories(items []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(items))
	for _, c := range items {
		resp := CategoryResponse{
			Name:        c.Name,
			Description: c.Description,
			Icon:        c.Icon,
			Color:       c.Color,
		}
		if c.Department != "" {
			department := c.Department
			resp.Department = &department
		}
		out = append(out, resp)
	}
	return out
}
