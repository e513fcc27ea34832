package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusEnumeration(t *testing.T) {
	for _, status := range ComplaintStatuses {
		assert.True(t, status.Valid(), status)
	}
	assert.False(t, ComplaintStatus("archived").Valid())
	assert.False(t, ComplaintStatus("PENDING").Valid())

	assert.True(t, StatusResolved.Terminal())
	assert.True(t, StatusClosed.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.False(t, StatusInProgress.Terminal())
}

func TestPriorityOrdering(t *testing.T) {
	assert.Less(t, PriorityLow.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityHigh.Rank())
	assert.Less(t, PriorityHigh.Rank(), PriorityCritical.Rank())
	assert.Equal(t, -1, ComplaintPriority("urgent").Rank())
	assert.False(t, ComplaintPriority("urgent").Valid())
}

func TestNormalizeDepartment(t *testing.T) {
	catalog := DepartmentCatalog(DefaultCategories())

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"exact", "Water Department", "Water Department", true},
		{"case and spacing", "  water   DEPARTMENT ", "Water Department", true},
		{"reserved pseudo-department", "admin staff", AdminStaffDepartment, true},
		{"empty means unset", "   ", "", true},
		{"unknown", "Ministry of Silly Walks", "Ministry of Silly Walks", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeDepartment(tt.input, catalog)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestDepartmentCatalog(t *testing.T) {
	catalog := DepartmentCatalog([]Category{
		{Name: "Roads", Department: "Public Works"},
		{Name: "Potholes", Department: "Public Works"},
		{Name: "Misc"},
	})
	assert.Equal(t, []string{AdminStaffDepartment, "Public Works"}, catalog)
}

func TestFindCategory(t *testing.T) {
	cat, ok := FindCategory(DefaultCategories(), " water supply ")
	assert.True(t, ok)
	assert.Equal(t, "Water Department", cat.Department)

	_, ok = FindCategory(DefaultCategories(), "Noise")
	assert.False(t, ok)
}
