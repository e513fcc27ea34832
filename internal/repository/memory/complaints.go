// Package memory holds mutex-guarded map stores used when no database is configured
// and as fakes in service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/spec-kit/complaint-portal/internal/domain"
	"github.com/spec-kit/complaint-portal/internal/lifecycle"
	"github.com/spec-kit/complaint-portal/internal/repository"
)

// ComplaintStore is an in-memory repository.ComplaintRepository.
type ComplaintStore struct {
	mu         sync.RWMutex
	complaints map[string]domain.Complaint
}

func NewComplaintStore() *ComplaintStore {
	return &ComplaintStore{complaints: make(map[string]domain.Complaint)}
}

var _ repository.ComplaintRepository = (*ComplaintStore)(nil)

func (s *ComplaintStore) Create(_ context.Context, complaint *domain.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.complaints[complaint.Reference]; exists {
		return repository.ErrDuplicate
	}
	complaint.UpdatedAt = complaint.CreatedAt
	s.complaints[complaint.Reference] = cloneComplaint(*complaint)
	return nil
}

func (s *ComplaintStore) GetByReference(_ context.Context, reference string) (*domain.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	complaint, ok := s.complaints[reference]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneComplaint(complaint)
	return &out, nil
}

func (s *ComplaintStore) List(_ context.Context, filter domain.ComplaintFilter) ([]domain.Complaint, error) {
	s.mu.RLock()
	matched := make([]domain.Complaint, 0, len(s.complaints))
	for _, complaint := range s.complaints {
		if matchesComplaint(complaint, filter) {
			matched = append(matched, cloneComplaint(complaint))
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].Reference > matched[j].Reference
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *ComplaintStore) Count(_ context.Context, filter domain.ComplaintFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, complaint := range s.complaints {
		if matchesComplaint(complaint, filter) {
			total++
		}
	}
	return total, nil
}

func (s *ComplaintStore) UpdateField(_ context.Context, update repository.FieldUpdate) (*domain.Complaint, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	complaint, ok := s.complaints[update.Reference]
	if !ok {
		return nil, "", repository.ErrNotFound
	}
	if update.Department != "" && complaint.Department != update.Department {
		return nil, "", repository.ErrNotFound
	}
	previous := lifecycle.Apply(&complaint, update.Change, update.At)
	s.complaints[update.Reference] = complaint
	out := cloneComplaint(complaint)
	return &out, previous, nil
}

func matchesComplaint(c domain.Complaint, filter domain.ComplaintFilter) bool {
	if filter.Status != "" && c.Status != filter.Status {
		return false
	}
	if filter.Priority != "" && c.Priority != filter.Priority {
		return false
	}
	if filter.Department != "" && c.Department != filter.Department {
		return false
	}
	if filter.Category != "" && c.Category != filter.Category {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
		if !strings.Contains(strings.ToLower(c.Title), term) &&
			!strings.Contains(strings.ToLower(c.Description), term) &&
			!strings.Contains(strings.ToLower(c.Address), term) &&
			!strings.Contains(strings.ToLower(c.Reference), term) {
			return false
		}
	}
	return true
}

func cloneComplaint(c domain.Complaint) domain.Complaint {
	if c.Location != nil {
		loc := *c.Location
		c.Location = &loc
	}
	if c.ResolvedAt != nil {
		at := *c.ResolvedAt
		c.ResolvedAt = &at
	}
	return c
}
