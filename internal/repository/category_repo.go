package repository

import (
	"fmt"
	"strings"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
)

// AddCategory stores a new category, enforcing title uniqueness
// (case-insensitive)
func (r *MemoryRepo) AddCategory(category model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.categories {
		if strings.EqualFold(c.Title, category.Title) {
			return fmt.Errorf("add category %q: %w", category.Title, auctionerrors.ErrDuplicateCategory)
		}
	}
	r.categories[category.CategoryID] = category
	return nil
}

// GetCategory returns a category by ID
func (r *MemoryRepo) GetCategory(categoryID string) (model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[categoryID]
	if !ok {
		return model.Category{}, fmt.Errorf("get category %s: %w", categoryID, auctionerrors.ErrCategoryNotFound)
	}
	return category, nil
}

// ListCategories returns all categories
func (r *MemoryRepo) ListCategories() ([]model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		categories = append(categories, c)
	}
	return categories, nil
}

// UpdateCategory replaces a stored category
func (r *MemoryRepo) UpdateCategory(category model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[category.CategoryID]; !ok {
		return fmt.Errorf("update category %s: %w", category.CategoryID, auctionerrors.ErrCategoryNotFound)
	}
	for _, c := range r.categories {
		if c.CategoryID != category.CategoryID && strings.EqualFold(c.Title, category.Title) {
			return fmt.Errorf("update category %q: %w", category.Title, auctionerrors.ErrDuplicateCategory)
		}
	}
	r.categories[category.CategoryID] = category
	return nil
}

// DeleteCategory removes a category
func (r *MemoryRepo) DeleteCategory(categoryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[categoryID]; !ok {
		return fmt.Errorf("delete category %s: %w", categoryID, auctionerrors.ErrCategoryNotFound)
	}
	delete(r.categories, categoryID)
	return nil
}
