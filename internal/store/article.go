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

// ArticleStore handles all article-related database operations.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore with the given database connection.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// articleSelect joins the category alias/name and author email so listings
// and detail pages can build public URLs without extra lookups.
const articleSelect = `
	SELECT a.id, a.title, a.body, a.alias, a.photo, a.category_id, a.author_id,
	       a.created_at, a.updated_at, a.deleted_at,
	       c.alias, c.name, u.email
	FROM articles a
	JOIN categories c ON c.id = a.category_id
	JOIN users u ON u.id = a.author_id`

// scanArticle scans a joined row into an Article struct.
func scanArticle(scanner interface{ Scan(...any) error }) (*models.Article, error) {
	var a models.Article
	err := scanner.Scan(
		&a.ID, &a.Title, &a.Body, &a.Alias, &a.Photo, &a.CategoryID, &a.AuthorID,
		&a.CreatedAt, &a.UpdatedAt, &a.DeletedAt,
		&a.CategoryAlias, &a.CategoryName, &a.AuthorEmail,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// collect drains joined article rows into a slice.
func collect(rows *sql.Rows) ([]models.Article, error) {
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// ListActive returns all non-archived articles, newest first. Used by the
// homepage and the admin dashboard.
func (s *ArticleStore) ListActive() ([]models.Article, error) {
	rows, err := s.db.Query(articleSelect + `
		WHERE a.deleted_at IS NULL
		ORDER BY a.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list active articles: %w", err)
	}
	return collect(rows)
}

// ListActiveByCategory returns non-archived articles of one category, newest first.
func (s *ArticleStore) ListActiveByCategory(categoryID uuid.UUID) ([]models.Article, error) {
	rows, err := s.db.Query(articleSelect+`
		WHERE a.deleted_at IS NULL AND a.category_id = $1
		ORDER BY a.created_at DESC
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list articles by category: %w", err)
	}
	return collect(rows)
}

// ListActiveByAuthor returns non-archived articles written by one user,
// newest first. Used by the profile view.
func (s *ArticleStore) ListActiveByAuthor(authorID uuid.UUID) ([]models.Article, error) {
	rows, err := s.db.Query(articleSelect+`
		WHERE a.deleted_at IS NULL AND a.author_id = $1
		ORDER BY a.created_at DESC
	`, authorID)
	if err != nil {
		return nil, fmt.Errorf("list articles by author: %w", err)
	}
	return collect(rows)
}

// ListTrashed returns all archived articles, most recently archived first.
func (s *ArticleStore) ListTrashed() ([]models.Article, error) {
	rows, err := s.db.Query(articleSelect + `
		WHERE a.deleted_at IS NOT NULL
		ORDER BY a.deleted_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list trashed articles: %w", err)
	}
	return collect(rows)
}

// FindByID retrieves an article by ID regardless of its archived state,
// so direct links and the trash view keep working. Returns nil if not found.
func (s *ArticleStore) FindByID(id uuid.UUID) (*models.Article, error) {
	row := s.db.QueryRow(articleSelect+` WHERE a.id = $1`, id)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return a, nil
}

// AliasExists reports whether another article in the same category already
// uses the alias. Archived articles count too: their rows still exist and
// their aliases must stay reachable after a restore.
func (s *ArticleStore) AliasExists(categoryID uuid.UUID, alias string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM articles
			WHERE category_id = $1 AND alias = $2 AND id <> $3
		)
	`, categoryID, alias, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("article alias exists: %w", err)
	}
	return exists, nil
}

// Create inserts a new article and returns it with joined fields populated.
func (s *ArticleStore) Create(a *models.Article) (*models.Article, error) {
	var id uuid.UUID
	err := s.db.QueryRow(`
		INSERT INTO articles (title, body, alias, photo, category_id, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, a.Title, a.Body, a.Alias, a.Photo, a.CategoryID, a.AuthorID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return s.FindByID(id)
}

// Update modifies an existing article. created_at is immutable; updated_at
// is refreshed on every write.
func (s *ArticleStore) Update(a *models.Article) error {
	_, err := s.db.Exec(`
		UPDATE articles SET
			title = $1, body = $2, alias = $3, photo = $4, category_id = $5,
			updated_at = NOW()
		WHERE id = $6
	`, a.Title, a.Body, a.Alias, a.Photo, a.CategoryID, a.ID)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return nil
}

// SoftDelete stamps the article as archived, hiding it from active listings.
func (s *ArticleStore) SoftDelete(id uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE articles SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("soft delete article: %w", err)
	}
	return nil
}

// Restore clears the archived stamp, returning the article to active listings.
func (s *ArticleStore) Restore(id uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE articles SET deleted_at = NULL, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("restore article: %w", err)
	}
	return nil
}

// Delete removes an article row permanently and returns the photo filename
// it referenced, if any, so the caller can clean up the media file after
// the row is gone.
func (s *ArticleStore) Delete(id uuid.UUID) (*string, error) {
	var photo *string
	err := s.db.QueryRow(`
		DELETE FROM articles WHERE id = $1 RETURNING photo
	`, id).Scan(&photo)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete article: %w", err)
	}
	return photo, nil
}
