package policy

import "github.com/spec-kit/complaint-portal/internal/domain"

// Scope is the visibility and mutation predicate of one caller.
type Scope struct {
	role       Role
	department string
}

// ScopeFor computes the scope for a role and department. The department only matters
// for DepartmentStaff.
func ScopeFor(role Role, department string) Scope {
	if role != RoleDepartmentStaff {
		department = ""
	}
	return Scope{role: role, department: department}
}

// ScopeOf computes the scope of a caller, re-resolving its role.
func ScopeOf(caller *domain.Account) Scope {
	if caller == nil {
		return ScopeFor(RoleCitizen, "")
	}
	return ScopeFor(Resolve(*caller), caller.Department)
}

// Role returns the role the scope was computed for.
func (s Scope) Role() Role {
	return s.role
}

// Department returns the department predicate, empty unless the scope is department-bound.
func (s Scope) Department() string {
	return s.department
}

// Visible reports whether the complaint may be read.
func (s Scope) Visible(c domain.Complaint) bool {
	switch s.role {
	case RoleAdministrator:
		return true
	case RoleDepartmentStaff:
		return s.matchesDepartment(c)
	default:
		// Citizens and pending accounts browse the public list read-only.
		return true
	}
}

// Mutable reports whether status and priority of the complaint may be changed.
func (s Scope) Mutable(c domain.Complaint) bool {
	switch s.role {
	case RoleAdministrator:
		return true
	case RoleDepartmentStaff:
		return s.matchesDepartment(c)
	default:
		return false
	}
}

// DepartmentScoped reports whether the complaint falls under the caller's department
// predicate. Only active staff have one.
func (s Scope) DepartmentScoped(c domain.Complaint) bool {
	return s.role == RoleDepartmentStaff && s.matchesDepartment(c)
}

// SeesContactDetails reports whether citizen contact fields may be disclosed.
func (s Scope) SeesContactDetails() bool {
	return s.role == RoleAdministrator || s.role == RoleDepartmentStaff
}

// Constrain narrows a filter to the scope. A department-bound scope overrides any
// requested department; ok is false when the request can match nothing.
func (s Scope) Constrain(filter domain.ComplaintFilter) (domain.ComplaintFilter, bool) {
	if s.role != RoleDepartmentStaff {
		return filter, true
	}
	if s.department == "" || (filter.Department != "" && filter.Department != s.department) {
		return filter, false
	}
	filter.Department = s.department
	return filter, true
}

func (s Scope) matchesDepartment(c domain.Complaint) bool {
	return s.department != "" && c.Department == s.department
}

// CanTransition reports whether the role may change status or priority at all.
func CanTransition(role Role, department string) bool {
	switch role {
	case RoleAdministrator:
		return true
	case RoleDepartmentStaff:
		return department != ""
	default:
		return false
	}
}

// CanManageStaff reports whether the role may grant or revoke account privileges.
func CanManageStaff(role Role) bool {
	return role == RoleAdministrator
}
