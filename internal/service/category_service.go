package service

import (
	"strings"

	"github.com/Athulraj10/qashio-api-assignment/internal/domain"
	"github.com/google/uuid"
)

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a new category for a user
func (s *CategoryService) CreateCategory(userID uuid.UUID, name string) (*domain.Category, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxCategoryNameLength {
		return nil, domain.ErrNameTooLong
	}

	category := &domain.Category{
		UserID: userID,
		Name:   name,
	}

	return s.categoryRepo.Create(category)
}

// GetCategories retrieves all categories for a user, sorted by name
func (s *CategoryService) GetCategories(userID uuid.UUID) ([]*domain.Category, error) {
	if userID == uuid.Nil {
		return []*domain.Category{}, nil
	}
	return s.categoryRepo.GetAllByUser(userID)
}

// GetCategoryByID retrieves a category by ID, scoped to the owner
func (s *CategoryService) GetCategoryByID(userID uuid.UUID, id uuid.UUID) (*domain.Category, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrCategoryNotFound
	}
	return s.categoryRepo.GetByID(userID, id)
}
