package dto

import (
	"time"

	"github.com/spec-kit/complaint-portal/internal/domain"
	"github.com/spec-kit/complaint-portal/internal/policy"
	"github.com/spec-kit/complaint-portal/internal/service"
)

// RegisterRequest payload for citizen registration.
type RegisterRequest struct {
	Handle      string `json:"handle" validate:"required"`
	DisplayName string `json:"display_name" validate:"max=120"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"max=32"`
	Password    string `json:"password" validate:"required"`
}

// Input converts the payload into a service input.
func (r RegisterRequest) Input() service.RegistrationInput {
	return service.RegistrationInput{
		Handle:      r.Handle,
		DisplayName: r.DisplayName,
		Email:       r.Email,
		Phone:       r.Phone,
		Password:    r.Password,
	}
}

// DepartmentAccessRequest registers an account that asks to join a department.
type DepartmentAccessRequest struct {
	RegisterRequest
	Department string `json:"department" validate:"required"`
}

// LoginRequest accepts a handle or an email address as identifier.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// UpdateAccountRequest carries the administrator-controlled flags. Omitted fields are
// left unchanged.
type UpdateAccountRequest struct {
	IsAdministrator   *bool   `json:"is_administrator"`
	IsDepartmentStaff *bool   `json:"is_department_staff"`
	Department        *string `json:"department"`
}

// Update converts the payload into a service update.
func (r UpdateAccountRequest) Update() service.AccountUpdate {
	return service.AccountUpdate{
		IsAdministrator:   r.IsAdministrator,
		IsDepartmentStaff: r.IsDepartmentStaff,
		Department:        r.Department,
	}
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AccountResponse exposes an account with its resolved role.
type AccountResponse struct {
	Handle            string      `json:"handle"`
	DisplayName       string      `json:"display_name"`
	Email             string      `json:"email"`
	Phone             string      `json:"phone,omitempty"`
	IsAdministrator   bool        `json:"is_administrator"`
	IsDepartmentStaff bool        `json:"is_department_staff"`
	Department        *string     `json:"department"`
	Role              policy.Role `json:"role"`
	CreatedAt         time.Time   `json:"created_at"`
}

// SessionResponse is returned by registration and login.
type SessionResponse struct {
	Account AccountResponse `json:"account"`
	Auth    AuthResponse    `json:"auth"`
}

// Account maps a domain account.
func Account(a *domain.Account) AccountResponse {
	resp := AccountResponse{
		Handle:            a.Handle,
		DisplayName:       a.DisplayName,
		Email:             a.Email,
		Phone:             a.Phone,
		IsAdministrator:   a.IsAdministrator,
		IsDepartmentStaff: a.IsDepartmentStaff,
		Role:              policy.Resolve(*a),
		CreatedAt:         a.CreatedAt,
	}
	if a.Department != "" {
		department := a.Department
		resp.Department = &department
	}
	return resp
}

// Accounts maps a slice of accounts.
func Accounts(items []domain.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(items))
	for i := range items {
		out = append(out, Account(&items[i]))
	}
	return out
}

// Session maps an issued session.
func Session(s *service.Session) SessionResponse {
	return SessionResponse{
		Account: Account(s.Account),
		Auth:    AuthResponse{Token: s.Token, ExpiresAt: s.ExpiresAt},
	}
}
