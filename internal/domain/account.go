package domain

import "time"

// Account is a registered identity. Its operating role is never stored; it is derived
// from IsAdministrator, IsDepartmentStaff and Department on every request.
type Account struct {
	Handle            string
	DisplayName       string
	Email             string
	Phone             string
	PasswordHash      string
	IsAdministrator   bool
	IsDepartmentStaff bool
	// Department is empty when unset.
	Department string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasDepartment reports whether a department is assigned.
func (a Account) HasDepartment() bool {
	return a.Department != ""
}

// AccountFilter narrows account listings. Empty fields do not constrain.
type AccountFilter struct {
	Department string
	Search     string
}
