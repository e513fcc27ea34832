package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-portal/internal/domain"
	apperrors "github.com/spec-kit/complaint-portal/pkg/util"
)

func newComplaint() domain.Complaint {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return domain.Complaint{
		Reference:  "CMP-20260301-ABCDEF012345",
		Status:     domain.StatusPending,
		Priority:   domain.PriorityMedium,
		Department: "Water Department",
		CreatedAt:  created,
		UpdatedAt:  created,
	}
}

func TestParseRejectsUnknownStatus(t *testing.T) {
	_, err := Parse("status", "archived")
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "status", apperrors.ToDomainError(err).Details["field"])
}

func TestParseRejectsUnknownPriorityAndField(t *testing.T) {
	_, err := Parse("priority", "urgent")
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "priority", apperrors.ToDomainError(err).Details["field"])

	_, err = Parse("department", "Water Department")
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "field", apperrors.ToDomainError(err).Details["field"])
}

func TestAnyStatusMayFollowAnyOther(t *testing.T) {
	for _, from := range domain.ComplaintStatuses {
		for _, to := range domain.ComplaintStatuses {
			c := newComplaint()
			c.Status = from
			change, err := Parse("status", string(to))
			require.NoError(t, err)

			previous := Apply(&c, change, time.Now())
			assert.Equal(t, string(from), previous)
			assert.Equal(t, to, c.Status)
			assert.Equal(t, domain.PriorityMedium, c.Priority)
		}
	}
}

func TestSameValueStillBumpsUpdatedAt(t *testing.T) {
	c := newComplaint()
	change, err := Parse("status", "pending")
	require.NoError(t, err)

	later := c.UpdatedAt.Add(time.Hour)
	Apply(&c, change, later)

	assert.Equal(t, domain.StatusPending, c.Status)
	assert.Equal(t, later, c.UpdatedAt)
}

func TestPriorityChangeLeavesStatusAlone(t *testing.T) {
	c := newComplaint()
	c.Status = domain.StatusInProgress
	change, err := Parse("priority", "critical")
	require.NoError(t, err)

	Apply(&c, change, time.Now())
	assert.Equal(t, domain.StatusInProgress, c.Status)
	assert.Equal(t, domain.PriorityCritical, c.Priority)
	assert.Nil(t, c.ResolvedAt)
}

func TestResolvedAtSurvivesReopen(t *testing.T) {
	c := newComplaint()
	resolvedAt := c.CreatedAt.Add(48 * time.Hour)

	resolve, _ := Parse("status", "resolved")
	Apply(&c, resolve, resolvedAt)
	require.NotNil(t, c.ResolvedAt)
	assert.Equal(t, resolvedAt, *c.ResolvedAt)

	reopen, _ := Parse("status", "in_progress")
	Apply(&c, reopen, resolvedAt.Add(time.Hour))
	Apply(&c, resolve, resolvedAt.Add(2*time.Hour))
	assert.Equal(t, resolvedAt, *c.ResolvedAt)
}
