package domain

import "strings"

// Category is a static catalog entry. Department is the default routing target for
// complaints filed under it and may be empty.
type Category struct {
	Name        string
	Description string
	Icon        string
	Color       string
	Department  string
}

// DefaultCategories is the catalog shipped with the portal.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Roads & Infrastructure", Description: "Potholes, damaged roads, street lights, footpaths", Icon: "🛣️", Color: "#EF4444", Department: "Public Works Department"},
		{Name: "Water Supply", Description: "Water shortage, leakage, quality issues", Icon: "💧", Color: "#3B82F6", Department: "Water Department"},
		{Name: "Electricity", Description: "Power outages, damaged poles, street light issues", Icon: "⚡", Color: "#F59E0B", Department: "Electricity Department"},
		{Name: "Sanitation & Waste", Description: "Garbage collection, drainage, cleanliness", Icon: "🗑️", Color: "#10B981", Department: "Sanitation Department"},
		{Name: "Public Safety", Description: "Crime, traffic violations, safety concerns", Icon: "🚨", Color: "#DC2626", Department: "Public Safety Department"},
		{Name: "Parks & Recreation", Description: "Park maintenance, playground equipment", Icon: "🌳", Color: "#059669", Department: "Parks & Recreation Department"},
		{Name: "Building & Construction", Description: "Illegal construction, building violations", Icon: "🏗️", Color: "#7C3AED", Department: "Urban Development Department"},
		{Name: "Other", Description: "Other municipal issues", Icon: "📋", Color: "#6B7280", Department: "General Administration"},
	}
}

// FindCategory looks a category up by name, ignoring case and surrounding whitespace.
func FindCategory(categories []Category, name string) (Category, bool) {
	name = strings.TrimSpace(name)
	for _, cat := range categories {
		if strings.EqualFold(cat.Name, name) {
			return cat, true
		}
	}
	return Category{}, false
}
