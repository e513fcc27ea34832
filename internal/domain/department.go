package domain

import (
	"sort"
	"strings"
)

// AdminStaffDepartment is the reserved pseudo-department used to request administrator
// access. It has no runtime behavior of its own.
const AdminStaffDepartment = "ADMIN STAFF"

// DepartmentCatalog returns the distinct departments referenced by categories plus the
// reserved pseudo-department, sorted.
func DepartmentCatalog(categories []Category) []string {
	seen := map[string]struct{}{AdminStaffDepartment: {}}
	for _, cat := range categories {
		if cat.Department == "" {
			continue
		}
		seen[cat.Department] = struct{}{}
	}
	result := make([]string, 0, len(seen))
	for name := range seen {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// NormalizeDepartment trims and collapses whitespace, then maps the name onto the
// catalog spelling using a case-insensitive match. ok is false when the name is not in
// the catalog. An empty input normalizes to "" with ok true.
func NormalizeDepartment(name string, catalog []string) (string, bool) {
	cleaned := strings.Join(strings.Fields(name), " ")
	if cleaned == "" {
		return "", true
	}
	for _, candidate := range catalog {
		if strings.EqualFold(candidate, cleaned) {
			return candidate, true
		}
	}
	return cleaned, false
}
