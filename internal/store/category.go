// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"lagazette/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, alias, created_at, updated_at, deleted_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Alias, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories (archived included) with active-article
// counts, ordered by name. Used by the admin dashboard.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.alias, c.created_at, c.updated_at, c.deleted_at,
		       COUNT(a.id) FILTER (WHERE a.deleted_at IS NULL) AS article_count
		FROM categories c
		LEFT JOIN articles a ON a.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Alias, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
			&c.ArticleCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// ListActive returns non-archived categories ordered by name. Used for the
// public navigation and the article form's category select.
func (s *CategoryStore) ListActive() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT ` + categoryColumns + ` FROM categories
		WHERE deleted_at IS NULL
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list active categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindActiveByAlias retrieves a non-archived category by its alias.
// Returns nil if not found. Used to resolve public category URLs.
func (s *CategoryStore) FindActiveByAlias(alias string) (*models.Category, error) {
	row := s.db.QueryRow(`
		SELECT `+categoryColumns+` FROM categories
		WHERE alias = $1 AND deleted_at IS NULL
	`, alias)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by alias: %w", err)
	}
	return c, nil
}

// AliasExists reports whether an active category other than excludeID
// already uses the alias.
func (s *CategoryStore) AliasExists(alias string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM categories
			WHERE alias = $1 AND deleted_at IS NULL AND id <> $2
		)
	`, alias, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category alias exists: %w", err)
	}
	return exists, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, alias)
		VALUES ($1, $2)
		RETURNING `+categoryColumns,
		c.Name, c.Alias,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category's name and alias.
func (s *CategoryStore) Update(c *models.Category) error {
	_, err := s.db.Exec(`
		UPDATE categories SET name = $1, alias = $2, updated_at = NOW()
		WHERE id = $3
	`, c.Name, c.Alias, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// SoftDelete stamps the category as archived. The row and its alias stay in
// storage; existing articles keep their reference.
func (s *CategoryStore) SoftDelete(id uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE categories SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("soft delete category: %w", err)
	}
	return nil
}

// Restore clears the archived stamp.
func (s *CategoryStore) Restore(id uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE categories SET deleted_at = NULL, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("restore category: %w", err)
	}
	return nil
}

// Delete removes a category row permanently.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// CountArticles returns how many article rows still reference the category,
// split into active and total. The total drives the hard-delete constraint
// check (archived articles keep their category reference too).
func (s *CategoryStore) CountArticles(id uuid.UUID) (active, total int, err error) {
	err = s.db.QueryRow(`
		SELECT COUNT(*) FILTER (WHERE deleted_at IS NULL), COUNT(*)
		FROM articles WHERE category_id = $1
	`, id).Scan(&active, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("count category articles: %w", err)
	}
	return active, total, nil
}
