package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-portal/internal/domain"
	"github.com/spec-kit/complaint-portal/internal/observability"
	"github.com/spec-kit/complaint-portal/internal/policy"
	"github.com/spec-kit/complaint-portal/internal/repository"
	apperrors "github.com/spec-kit/complaint-portal/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller with its freshly resolved role.
type Principal struct {
	Account *domain.Account
	Role    policy.Role
}

// AccountLoader is the subset of the account store the middleware needs.
type AccountLoader interface {
	GetByHandle(ctx context.Context, handle string) (*domain.Account, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	accounts AccountLoader
	logger   *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, accounts AccountLoader, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, accounts: accounts, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}
	return m.authenticate(c)
}

// Optional authenticates when a bearer token is present and otherwise lets the request
// through anonymously. A token that is present but invalid is still rejected.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" {
		c.Locals(observability.RoleLocalKey, string(policy.RoleCitizen))
		return c.Next()
	}
	return m.authenticate(c)
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx) error {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	account, err := m.accounts.GetByHandle(c.UserContext(), claims.Handle())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewUnauthorized("account not found")
		}
		return apperrors.MapError(err)
	}

	if err := policy.CheckConsistency(*account); err != nil {
		m.logger.Warn("account flagged as staff without a department; treating as pending",
			zap.String("handle", account.Handle), zap.Error(err))
	}

	principal := &Principal{Account: account, Role: policy.Resolve(*account)}
	c.Locals(principalKey, principal)
	c.Locals(observability.RoleLocalKey, string(principal.Role))
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// CallerFromContext returns the authenticated account, or nil for anonymous callers.
func CallerFromContext(c *fiber.Ctx) *domain.Account {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal == nil {
		return nil
	}
	return principal.Account
}
