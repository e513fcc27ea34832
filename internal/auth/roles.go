package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-portal/internal/policy"
	apperrors "github.com/spec-kit/complaint-portal/pkg/util"
)

// RequireAccount ensures the caller is authenticated.
func RequireAccount() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireStaffManager ensures the caller may grant and revoke account privileges.
// The services check again; this only short-circuits obviously unauthorized requests.
func RequireStaffManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !policy.CanManageStaff(principal.Role) {
			return apperrors.NewAuthorizationError()
		}
		return c.Next()
	}
}
