// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"lagazette/internal/models"
	"lagazette/internal/slug"
)

// CategoryRepo is the persistence surface the category lifecycle needs.
// *store.CategoryStore satisfies it.
type CategoryRepo interface {
	List() ([]models.Category, error)
	ListActive() ([]models.Category, error)
	FindByID(id uuid.UUID) (*models.Category, error)
	FindActiveByAlias(alias string) (*models.Category, error)
	AliasExists(alias string, excludeID uuid.UUID) (bool, error)
	Create(c *models.Category) (*models.Category, error)
	Update(c *models.Category) error
	SoftDelete(id uuid.UUID) error
	Restore(id uuid.UUID) error
	Delete(id uuid.UUID) error
	CountArticles(id uuid.UUID) (active, total int, err error)
}

// CategoryService implements the category lifecycle. All mutating
// operations require the acting principal to hold the admin role.
type CategoryService struct {
	categories CategoryRepo
}

// NewCategoryService returns a CategoryService backed by the given repository.
func NewCategoryService(categories CategoryRepo) *CategoryService {
	return &CategoryService{categories: categories}
}

// List returns every category, archived included, with article counts.
func (s *CategoryService) List(actor *models.User) ([]models.Category, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.categories.List()
}

// ListActive returns the categories shown in the public navigation.
func (s *CategoryService) ListActive() ([]models.Category, error) {
	return s.categories.ListActive()
}

// FindByID returns a category or ErrNotFound.
func (s *CategoryService) FindByID(actor *models.User, id uuid.UUID) (*models.Category, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	c, err := s.categories.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return c, nil
}

// validateName trims and checks the display name, deriving the alias.
// Alias uniqueness is checked against active categories only: an archived
// category does not block reuse of its alias.
func (s *CategoryService) validateName(name string, excludeID uuid.UUID) (trimmed, alias string, err error) {
	trimmed = strings.TrimSpace(name)
	if trimmed == "" {
		return "", "", &ValidationError{Fields: map[string]string{
			"name": "Le nom de la catégorie est obligatoire.",
		}}
	}
	alias = slug.Generate(trimmed)
	if alias == "" {
		return "", "", &ValidationError{Fields: map[string]string{
			"name": "Le nom doit contenir au moins une lettre ou un chiffre.",
		}}
	}
	taken, err := s.categories.AliasExists(alias, excludeID)
	if err != nil {
		return "", "", err
	}
	if taken {
		return "", "", &ValidationError{Fields: map[string]string{
			"name": "Une catégorie avec ce nom existe déjà.",
		}}
	}
	return trimmed, alias, nil
}

// Create adds a new category. The alias is derived from the name; it is
// never supplied by the caller.
func (s *CategoryService) Create(actor *models.User, name string) (*models.Category, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	trimmed, alias, err := s.validateName(name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	return s.categories.Create(&models.Category{Name: trimmed, Alias: alias})
}

// Update renames a category, re-deriving its alias.
func (s *CategoryService) Update(actor *models.User, id uuid.UUID, name string) (*models.Category, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	c, err := s.categories.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	trimmed, alias, err := s.validateName(name, id)
	if err != nil {
		return nil, err
	}
	c.Name = trimmed
	c.Alias = alias
	if err := s.categories.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

// SoftDelete archives a category. Its articles keep their reference and
// stay reachable; only the category disappears from active navigation.
func (s *CategoryService) SoftDelete(actor *models.User, id uuid.UUID) error {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return err
	}
	c, err := s.categories.FindByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return s.categories.SoftDelete(id)
}

// Restore brings an archived category back into active navigation.
func (s *CategoryService) Restore(actor *models.User, id uuid.UUID) error {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return err
	}
	c, err := s.categories.FindByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return s.categories.Restore(id)
}

// HardDelete removes a category permanently. It is refused with
// ErrCategoryInUse while any article row, archived ones included, still
// references the category; purge the articles first.
func (s *CategoryService) HardDelete(actor *models.User, id uuid.UUID) error {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return err
	}
	c, err := s.categories.FindByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	_, total, err := s.categories.CountArticles(id)
	if err != nil {
		return err
	}
	if total > 0 {
		return fmt.Errorf("category %q has %d article(s): %w", c.Name, total, ErrCategoryInUse)
	}
	return s.categories.Delete(id)
}
