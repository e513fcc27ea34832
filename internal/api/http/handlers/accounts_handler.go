package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-portal/internal/api/dto"
	"github.com/spec-kit/complaint-portal/internal/auth"
	"github.com/spec-kit/complaint-portal/internal/policy"
	"github.com/spec-kit/complaint-portal/internal/service"
	apperrors "github.com/spec-kit/complaint-portal/pkg/util"
)

// AccountsHandler exposes registration, login and staff management.
type AccountsHandler struct {
	accounts *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accountService *service.AccountService) *AccountsHandler {
	return &AccountsHandler{accounts: accountService}
}

// Register handles POST /auth/register.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	session, err := h.accounts.RegisterCitizen(c.UserContext(), req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.Session(session)})
}

// RegisterDepartment handles POST /auth/register-department.
func (h *AccountsHandler) RegisterDepartment(c *fiber.Ctx) error {
	var req dto.DepartmentAccessRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	session, err := h.accounts.RequestDepartmentAccess(c.UserContext(), req.Input(), req.Department)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.Session(session)})
}

// Login handles POST /auth/login.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	session, err := h.accounts.Login(c.UserContext(), req.Identifier, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.Session(session)})
}

// Me handles GET /auth/me.
func (h *AccountsHandler) Me(c *fiber.Ctx) error {
	caller := auth.CallerFromContext(c)
	if caller == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.Account(caller)})
}

// List handles GET /accounts.
func (h *AccountsHandler) List(c *fiber.Ctx) error {
	accounts, err := h.accounts.ListAccounts(c.UserContext(), auth.CallerFromContext(c), service.AccountQuery{
		Role:       policy.Role(c.Query("role")),
		Department: c.Query("department"),
		Search:     c.Query("search"),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.Accounts(accounts)})
}

// Update handles PATCH /accounts/:handle.
func (h *AccountsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateAccountRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	account, err := h.accounts.UpdateAccount(c.UserContext(), auth.CallerFromContext(c), c.Params("handle"), req.Update())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.Account(account)})
}
