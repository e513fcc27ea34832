package policy

import (
	"github.com/spec-kit/complaint-portal/internal/domain"
	apperrors "github.com/spec-kit/complaint-portal/pkg/util"
)

// Role is the single operating persona of an account. It is derived, never stored.
type Role string

const (
	RoleAdministrator     Role = "administrator"
	RoleDepartmentStaff   Role = "department_staff"
	RoleDepartmentPending Role = "department_pending"
	RoleCitizen           Role = "citizen"
)

// Roles lists every role from widest to narrowest scope.
var Roles = []Role{RoleAdministrator, RoleDepartmentStaff, RoleDepartmentPending, RoleCitizen}

// Resolve derives the operating role from account flags. The administrator flag
// dominates. A staff flag without a department resolves to DepartmentPending; use
// CheckConsistency to detect that state.
func Resolve(account domain.Account) Role {
	switch {
	case account.IsAdministrator:
		return RoleAdministrator
	case account.IsDepartmentStaff && account.HasDepartment():
		return RoleDepartmentStaff
	case account.HasDepartment() || account.IsDepartmentStaff:
		return RoleDepartmentPending
	default:
		return RoleCitizen
	}
}

// RoleOf resolves the caller's role; anonymous callers are citizens.
func RoleOf(caller *domain.Account) Role {
	if caller == nil {
		return RoleCitizen
	}
	return Resolve(*caller)
}

// CheckConsistency reports accounts flagged as department staff without a department.
func CheckConsistency(account domain.Account) error {
	if account.IsDepartmentStaff && !account.HasDepartment() {
		return apperrors.ErrInconsistentAccountState
	}
	return nil
}
