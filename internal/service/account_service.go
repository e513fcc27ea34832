package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-portal/internal/auth"
	"github.com/spec-kit/complaint-portal/internal/config"
	"github.com/spec-kit/complaint-portal/internal/domain"
	"github.com/spec-kit/complaint-portal/internal/events"
	"github.com/spec-kit/complaint-portal/internal/observability"
	"github.com/spec-kit/complaint-portal/internal/policy"
	"github.com/spec-kit/complaint-portal/internal/repository"
	apperrors "github.com/spec-kit/complaint-portal/pkg/util"
)

// AccountService coordinates registration, login and the staff activation workflow.
type AccountService struct {
	accounts   repository.AccountRepository
	catalog    *CatalogService
	tokens     *auth.TokenManager
	bcryptCost int
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// AccountDependencies bundles collaborators for the account service.
type AccountDependencies struct {
	AccountRepo repository.AccountRepository
	Catalog     *CatalogService
	Tokens      *auth.TokenManager
	BcryptCost  int
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// RegistrationInput describes a new account.
type RegistrationInput struct {
	Handle      string
	DisplayName string
	Email       string
	Phone       string
	Password    string
}

// AccountUpdate carries the administrator-controlled flags. Nil fields are left as they
// are; an empty Department clears it.
type AccountUpdate struct {
	IsAdministrator   *bool
	IsDepartmentStaff *bool
	Department        *string
}

// AccountQuery filters the admin account listing.
type AccountQuery struct {
	Role       policy.Role
	Department string
	Search     string
}

// Session is an issued access token.
type Session struct {
	Account   *domain.Account
	Token     string
	ExpiresAt time.Time
}

// NewAccountService builds the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		accounts:   deps.AccountRepo,
		catalog:    deps.Catalog,
		tokens:     deps.Tokens,
		bcryptCost: deps.BcryptCost,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// RegisterCitizen creates an account with no privileges.
func (s *AccountService) RegisterCitizen(ctx context.Context, input RegistrationInput) (*Session, error) {
	account, err := s.register(ctx, input, "")
	if err != nil {
		return nil, err
	}
	return s.issue(account)
}

// RequestDepartmentAccess creates an account bound to a department but without the
// staff flag. It resolves to DepartmentPending and has citizen access until an
// administrator activates it.
func (s *AccountService) RequestDepartmentAccess(ctx context.Context, input RegistrationInput, department string) (*Session, error) {
	if strings.TrimSpace(department) == "" {
		return nil, apperrors.NewValidationError("department", "department is required", nil)
	}
	normalized, err := s.catalog.NormalizeDepartment(ctx, department)
	if err != nil {
		return nil, err
	}
	account, err := s.register(ctx, input, normalized)
	if err != nil {
		return nil, err
	}
	s.logger.Info("department access requested",
		zap.String("handle", account.Handle),
		zap.String("department", account.Department))
	return s.issue(account)
}

// Login authenticates by handle or email.
func (s *AccountService) Login(ctx context.Context, identifier, password string) (*Session, error) {
	identifier = strings.TrimSpace(identifier)
	var (
		account *domain.Account
		err     error
	)
	if strings.Contains(identifier, "@") {
		account, err = s.accounts.GetByEmail(ctx, identifier)
	} else {
		account, err = s.accounts.GetByHandle(ctx, strings.ToLower(identifier))
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	if !auth.PasswordMatches(account.PasswordHash, password) {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.issue(account)
}

// ListAccounts lists accounts for administrators.
func (s *AccountService) ListAccounts(ctx context.Context, caller *domain.Account, query AccountQuery) ([]domain.Account, error) {
	if !policy.CanManageStaff(policy.RoleOf(caller)) {
		s.metrics.AuthorizationDenied("list_accounts")
		return nil, apperrors.NewAuthorizationError()
	}
	if query.Role != "" && !validRole(query.Role) {
		return nil, apperrors.NewValidationError("role", "unknown role", map[string]any{"value": query.Role})
	}

	filter := domain.AccountFilter{Search: query.Search}
	if query.Department != "" {
		departments, err := s.catalog.Departments(ctx)
		if err != nil {
			return nil, err
		}
		filter.Department, _ = domain.NormalizeDepartment(query.Department, departments)
	}

	accounts, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	if query.Role == "" {
		return accounts, nil
	}
	result := accounts[:0]
	for _, account := range accounts {
		if policy.Resolve(account) == query.Role {
			result = append(result, account)
		}
	}
	return result, nil
}

// UpdateAccount grants or revokes privileges. Only callers who can manage staff may
// use it, and the result can never be a staff account without a department.
func (s *AccountService) UpdateAccount(ctx context.Context, caller *domain.Account, handle string, update AccountUpdate) (*domain.Account, error) {
	if !policy.CanManageStaff(policy.RoleOf(caller)) {
		s.metrics.AuthorizationDenied("update_account")
		s.logger.Info("operation denied",
			zap.String("operation", "update_account"),
			zap.String("handle", handleOf(caller)),
			zap.String("target", handle))
		return nil, apperrors.NewAuthorizationError()
	}

	privileges := repository.AccountPrivileges{
		IsAdministrator:   update.IsAdministrator,
		IsDepartmentStaff: update.IsDepartmentStaff,
	}
	if update.Department != nil {
		normalized, err := s.catalog.NormalizeDepartment(ctx, *update.Department)
		if err != nil {
			return nil, err
		}
		privileges.Department = &normalized
	}

	// Only the named privileges are written; the store enforces the department rule.
	updated, before, err := s.accounts.UpdatePrivileges(ctx, strings.ToLower(strings.TrimSpace(handle)), privileges)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NewNotFound("account", map[string]any{"handle": handle})
		case errors.Is(err, repository.ErrStaffWithoutDepartment):
			return nil, apperrors.NewValidationError("department", "department staff must have a department", nil)
		}
		return nil, fmt.Errorf("update account: %w", err)
	}

	oldRole := policy.Resolve(before)
	newRole := policy.Resolve(*updated)
	s.logger.Info("account privileges updated",
		zap.String("handle", updated.Handle),
		zap.String("by", handleOf(caller)),
		zap.String("old_role", string(oldRole)),
		zap.String("role", string(newRole)),
		zap.String("department", updated.Department))

	if oldRole != newRole {
		s.metrics.RoleChanged(string(newRole))
		s.publishEvent(ctx, events.Event{
			Type:    events.EventAccountRoleChanged,
			Subject: updated.Handle,
			Actor:   handleOf(caller),
			Payload: events.AccountRoleChangedPayload{
				OldRole:    string(oldRole),
				NewRole:    string(newRole),
				Department: updated.Department,
			},
		})
	}
	return updated, nil
}

// EnsureBootstrapAdmin creates the configured administrator when it does not exist yet.
// An existing account with that handle is left untouched.
func (s *AccountService) EnsureBootstrapAdmin(ctx context.Context, cfg config.BootstrapConfig) error {
	if cfg.AdminHandle == "" {
		return nil
	}
	handle, err := normalizeHandle(cfg.AdminHandle)
	if err != nil {
		return err
	}
	if _, err := s.accounts.GetByHandle(ctx, handle); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("load bootstrap admin: %w", err)
	}

	if err := auth.CheckPassword(cfg.AdminPassword); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	email := cfg.AdminEmail
	if email == "" {
		email = handle + "@localhost"
	}
	hash, err := auth.HashPassword(cfg.AdminPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}
	admin := &domain.Account{
		Handle:          handle,
		DisplayName:     "Administrator",
		Email:           email,
		PasswordHash:    hash,
		IsAdministrator: true,
	}
	if err := s.accounts.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil
		}
		return fmt.Errorf("create bootstrap admin: %w", err)
	}
	s.logger.Info("bootstrap administrator created", zap.String("handle", handle))
	return nil
}

func (s *AccountService) register(ctx context.Context, input RegistrationInput, department string) (*domain.Account, error) {
	handle, err := normalizeHandle(input.Handle)
	if err != nil {
		return nil, err
	}
	email := strings.TrimSpace(input.Email)
	if err := validateEmail("email", email); err != nil {
		return nil, err
	}
	if err := auth.CheckPassword(input.Password); err != nil {
		return nil, apperrors.NewValidationError("password", err.Error(), nil)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = handle
	}
	account := &domain.Account{
		Handle:       handle,
		DisplayName:  displayName,
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		Department:   department,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("handle or email already registered", nil)
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}

func (s *AccountService) issue(account *domain.Account) (*Session, error) {
	token, expiresAt, err := s.tokens.GenerateToken(account.Handle)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Account: account, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AccountService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event subscriber failed",
			zap.String("event_type", string(event.Type)),
			zap.String("subject", event.Subject),
			zap.Error(err))
	}
}

func validRole(role policy.Role) bool {
	for _, candidate := range policy.Roles {
		if candidate == role {
			return true
		}
	}
	return false
}
