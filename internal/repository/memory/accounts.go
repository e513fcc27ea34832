package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/complaint-portal/internal/domain"
	"github.com/spec-kit/complaint-portal/internal/repository"
)

// AccountStore is an in-memory repository.AccountRepository.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
}

func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[string]domain.Account)}
}

var _ repository.AccountRepository = (*AccountStore)(nil)

func (s *AccountStore) Create(_ context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[account.Handle]; exists {
		return repository.ErrDuplicate
	}
	for _, existing := range s.accounts {
		if strings.EqualFold(existing.Email, account.Email) {
			return repository.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	s.accounts[account.Handle] = *account
	return nil
}

func (s *AccountStore) GetByHandle(_ context.Context, handle string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[handle]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &account, nil
}

func (s *AccountStore) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, account := range s.accounts {
		if strings.EqualFold(account.Email, email) {
			return &account, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *AccountStore) List(_ context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	s.mu.RLock()
	result := make([]domain.Account, 0, len(s.accounts))
	term := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, account := range s.accounts {
		if filter.Department != "" && account.Department != filter.Department {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(account.Handle), term) &&
			!strings.Contains(strings.ToLower(account.DisplayName), term) &&
			!strings.Contains(strings.ToLower(account.Email), term) {
			continue
		}
		result = append(result, account)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].Handle < result[j].Handle })
	return result, nil
}

func (s *AccountStore) UpdatePrivileges(_ context.Context, handle string, privileges repository.AccountPrivileges) (*domain.Account, domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before, ok := s.accounts[handle]
	if !ok {
		return nil, domain.Account{}, repository.ErrNotFound
	}
	account := before
	if privileges.IsAdministrator != nil {
		account.IsAdministrator = *privileges.IsAdministrator
	}
	if privileges.IsDepartmentStaff != nil {
		account.IsDepartmentStaff = *privileges.IsDepartmentStaff
	}
	if privileges.Department != nil {
		account.Department = *privileges.Department
	}
	if account.IsDepartmentStaff && account.Department == "" {
		return nil, domain.Account{}, repository.ErrStaffWithoutDepartment
	}
	account.UpdatedAt = time.Now().UTC()
	s.accounts[handle] = account
	return &account, before, nil
}
