package service

import (
	"context"
	"fmt"

	"github.com/spec-kit/complaint-portal/internal/domain"
	"github.com/spec-kit/complaint-portal/internal/repository"
	apperrors "github.com/spec-kit/complaint-portal/pkg/util"
)

// CatalogService exposes the category and department catalogs.
type CatalogService struct {
	categories repository.CategoryRepository
}

// NewCatalogService builds the service.
func NewCatalogService(categories repository.CategoryRepository) *CatalogService {
	return &CatalogService{categories: categories}
}

// Categories lists the category catalog.
func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Departments lists every department a complaint or account may reference, including
// the reserved administrator-request entry.
func (s *CatalogService) Departments(ctx context.Context) ([]string, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return domain.DepartmentCatalog(categories), nil
}

// Category resolves a category by name.
func (s *CatalogService) Category(ctx context.Context, name string) (domain.Category, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return domain.Category{}, err
	}
	category, ok := domain.FindCategory(categories, name)
	if !ok {
		return domain.Category{}, apperrors.NewValidationError("category", "unknown category", map[string]any{"value": name})
	}
	return category, nil
}

// NormalizeDepartment maps a user-supplied department onto its catalog spelling. An
// empty name stays empty.
func (s *CatalogService) NormalizeDepartment(ctx context.Context, name string) (string, error) {
	departments, err := s.Departments(ctx)
	if err != nil {
		return "", err
	}
	normalized, ok := domain.NormalizeDepartment(name, departments)
	if !ok {
		return "", apperrors.NewValidationError("department", "unknown department", map[string]any{"value": name})
	}
	return normalized, nil
}
