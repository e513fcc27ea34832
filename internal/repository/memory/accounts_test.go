package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-portal/internal/domain"
	"github.com/spec-kit/complaint-portal/internal/repository"
)

func TestAccountStore(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore()

	pending := &domain.Account{Handle: "water-desk", Email: "Water@city.gov", Department: "Water Department"}
	require.NoError(t, store.Create(ctx, pending))

	t.Run("handle and email are unique", func(t *testing.T) {
		require.ErrorIs(t, store.Create(ctx, &domain.Account{Handle: "water-desk", Email: "x@city.gov"}), repository.ErrDuplicate)
		require.ErrorIs(t, store.Create(ctx, &domain.Account{Handle: "other", Email: "water@city.gov"}), repository.ErrDuplicate)
	})

	t.Run("email lookup ignores case", func(t *testing.T) {
		found, err := store.GetByEmail(ctx, "WATER@CITY.GOV")
		require.NoError(t, err)
		assert.Equal(t, "water-desk", found.Handle)
	})

	t.Run("privileges update in place", func(t *testing.T) {
		staff := true
		updated, before, err := store.UpdatePrivileges(ctx, "water-desk", repository.AccountPrivileges{
			IsDepartmentStaff: &staff,
		})
		require.NoError(t, err)
		assert.True(t, updated.IsDepartmentStaff)
		assert.False(t, before.IsDepartmentStaff)
		assert.Equal(t, "Water Department", updated.Department)
		assert.Equal(t, "Water@city.gov", updated.Email)
	})

	t.Run("unnamed privileges are left alone", func(t *testing.T) {
		admin := true
		updated, before, err := store.UpdatePrivileges(ctx, "water-desk", repository.AccountPrivileges{
			IsAdministrator: &admin,
		})
		require.NoError(t, err)
		assert.True(t, updated.IsAdministrator)
		assert.True(t, updated.IsDepartmentStaff)
		assert.Equal(t, "Water Department", updated.Department)
		assert.False(t, before.IsAdministrator)
	})

	t.Run("staff cannot lose their department", func(t *testing.T) {
		cleared := ""
		_, _, err := store.UpdatePrivileges(ctx, "water-desk", repository.AccountPrivileges{Department: &cleared})
		require.ErrorIs(t, err, repository.ErrStaffWithoutDepartment)

		stored, err := store.GetByHandle(ctx, "water-desk")
		require.NoError(t, err)
		assert.Equal(t, "Water Department", stored.Department)
	})

	t.Run("unknown handle", func(t *testing.T) {
		_, _, err := store.UpdatePrivileges(ctx, "ghost", repository.AccountPrivileges{})
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("list filters by department", func(t *testing.T) {
		require.NoError(t, store.Create(ctx, &domain.Account{Handle: "citizen", Email: "c@example.com"}))
		list, err := store.List(ctx, domain.AccountFilter{Department: "Water Department"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "water-desk", list[0].Handle)
	})
}

func TestFeedbackStoreAllowsOnePerComplaint(t *testing.T) {
	ctx := context.Background()
	store := NewFeedbackStore()

	require.NoError(t, store.Create(ctx, &domain.Feedback{Reference: "CMP-1", Rating: 5}))
	require.ErrorIs(t, store.Create(ctx, &domain.Feedback{Reference: "CMP-1", Rating: 1}), repository.ErrDuplicate)

	found, err := store.GetByReference(ctx, "CMP-1")
	require.NoError(t, err)
	assert.Equal(t, 5, found.Rating)
}
