package memory

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/complaint-portal/internal/domain"
	"github.com/spec-kit/complaint-portal/internal/repository"
)

// CategoryStore serves a fixed catalog.
type CategoryStore struct {
	categories []domain.Category
}

// NewCategoryStore returns a store over categories, or the default catalog when none are given.
func NewCategoryStore(categories ...domain.Category) *CategoryStore {
	if len(categories) == 0 {
		categories = domain.DefaultCategories()
	}
	return &CategoryStore{categories: categories}
}

var _ repository.CategoryRepository = (*CategoryStore)(nil)

func (s *CategoryStore) List(context.Context) ([]domain.Category, error) {
	return append([]domain.Category{}, s.categories...), nil
}

// HistoryStore is an append-only in-memory audit log.
type HistoryStore struct {
	mu      sync.RWMutex
	entries map[string][]domain.ComplaintHistory
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{entries: make(map[string][]domain.ComplaintHistory)}
}

var _ repository.ComplaintHistoryRepository = (*HistoryStore)(nil)

func (s *HistoryStore) Create(_ context.Context, history *domain.ComplaintHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[history.Reference] = append(s.entries[history.Reference], *history)
	return nil
}

func (s *HistoryStore) ListByReference(_ context.Context, reference string) ([]domain.ComplaintHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ComplaintHistory{}, s.entries[reference]...), nil
}

// FeedbackStore keeps at most one feedback per complaint.
type FeedbackStore struct {
	mu       sync.RWMutex
	feedback map[string]domain.Feedback
}

func NewFeedbackStore() *FeedbackStore {
	return &FeedbackStore{feedback: make(map[string]domain.Feedback)}
}

var _ repository.FeedbackRepository = (*FeedbackStore)(nil)

func (s *FeedbackStore) Create(_ context.Context, feedback *domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.feedback[feedback.Reference]; exists {
		return repository.ErrDuplicate
	}
	feedback.CreatedAt = time.Now().UTC()
	s.feedback[feedback.Reference] = *feedback
	return nil
}

func (s *FeedbackStore) GetByReference(_ context.Context, reference string) (*domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	feedback, ok := s.feedback[reference]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &feedback, nil
}
