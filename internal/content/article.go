// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"lagazette/internal/models"
	"lagazette/internal/slug"
)

// ArticleRepo is the persistence surface the article lifecycle needs.
// *store.ArticleStore satisfies it.
type ArticleRepo interface {
	ListActive() ([]models.Article, error)
	ListActiveByCategory(categoryID uuid.UUID) ([]models.Article, error)
	ListActiveByAuthor(authorID uuid.UUID) ([]models.Article, error)
	ListTrashed() ([]models.Article, error)
	FindByID(id uuid.UUID) (*models.Article, error)
	AliasExists(categoryID uuid.UUID, alias string, excludeID uuid.UUID) (bool, error)
	Create(a *models.Article) (*models.Article, error)
	Update(a *models.Article) error
	SoftDelete(id uuid.UUID) error
	Restore(id uuid.UUID) error
	Delete(id uuid.UUID) (photo *string, err error)
}

// PhotoStore is the file storage surface for article photos.
// *media.Store satisfies it.
type PhotoStore interface {
	Save(originalName string, r io.Reader) (string, error)
	Delete(filename string) error
}

// PhotoUpload carries an uploaded photo into Create and Update.
type PhotoUpload struct {
	Filename string
	Data     io.Reader
}

// ArticleInput is the caller-supplied state for creating or updating an
// article. The alias and the author are never part of the input: the alias
// is derived from the title and the author is the acting principal.
type ArticleInput struct {
	Title      string
	Body       string
	CategoryID uuid.UUID
	Photo      *PhotoUpload
}

// ArticleService implements the article lifecycle. All mutating operations
// require the acting principal to hold the admin role.
type ArticleService struct {
	articles   ArticleRepo
	categories CategoryRepo
	photos     PhotoStore
}

// NewArticleService returns an ArticleService wired to its repositories
// and the photo store.
func NewArticleService(articles ArticleRepo, categories CategoryRepo, photos PhotoStore) *ArticleService {
	return &ArticleService{articles: articles, categories: categories, photos: photos}
}

// ListActive returns all non-archived articles, newest first.
func (s *ArticleService) ListActive() ([]models.Article, error) {
	return s.articles.ListActive()
}

// ListByCategoryAlias resolves an active category by alias and returns its
// non-archived articles. ErrNotFound if no active category carries the alias.
func (s *ArticleService) ListByCategoryAlias(alias string) (*models.Category, []models.Article, error) {
	c, err := s.categories.FindActiveByAlias(alias)
	if err != nil {
		return nil, nil, err
	}
	if c == nil {
		return nil, nil, fmt.Errorf("category %q: %w", alias, ErrNotFound)
	}
	articles, err := s.articles.ListActiveByCategory(c.ID)
	if err != nil {
		return nil, nil, err
	}
	return c, articles, nil
}

// ListByAuthor returns the non-archived articles written by one user.
func (s *ArticleService) ListByAuthor(authorID uuid.UUID) ([]models.Article, error) {
	return s.articles.ListActiveByAuthor(authorID)
}

// ListTrashed returns the archived articles for the admin trash view.
func (s *ArticleService) ListTrashed(actor *models.User) ([]models.Article, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.articles.ListTrashed()
}

// FindByID returns an article, archived or not, or ErrNotFound. Direct
// links keep resolving after an archive so a restore brings them back
// without breakage.
func (s *ArticleService) FindByID(id uuid.UUID) (*models.Article, error) {
	a, err := s.articles.FindByID(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	return a, nil
}

// validate checks the input fields and derives the alias. Alias uniqueness
// is scoped to the category and counts archived articles too, since their
// rows keep their alias until purged.
func (s *ArticleService) validate(in *ArticleInput, excludeID uuid.UUID) (title, body, alias string, err error) {
	fields := map[string]string{}

	title = strings.TrimSpace(in.Title)
	if title == "" {
		fields["title"] = "Le titre est obligatoire."
	}
	body = strings.TrimSpace(in.Body)
	if body == "" {
		fields["body"] = "Le contenu est obligatoire."
	}

	if in.CategoryID == uuid.Nil {
		fields["category"] = "Choisissez une catégorie."
	} else {
		c, err := s.categories.FindByID(in.CategoryID)
		if err != nil {
			return "", "", "", err
		}
		if c == nil || c.IsDeleted() {
			fields["category"] = "Choisissez une catégorie valide."
		}
	}

	if title != "" {
		alias = slug.Generate(title)
		if alias == "" {
			fields["title"] = "Le titre doit contenir au moins une lettre ou un chiffre."
		}
	}

	if len(fields) > 0 {
		return "", "", "", &ValidationError{Fields: fields}
	}

	taken, err := s.articles.AliasExists(in.CategoryID, alias, excludeID)
	if err != nil {
		return "", "", "", err
	}
	if taken {
		return "", "", "", &ValidationError{Fields: map[string]string{
			"title": "Un article avec ce titre existe déjà dans cette catégorie.",
		}}
	}
	return title, body, alias, nil
}

// Create persists a new article authored by the acting principal. A failed
// photo store is a partial success: the article is persisted without a
// photo and the returned error wraps ErrPhotoNotStored so the caller can
// show a warning instead of a failure.
func (s *ArticleService) Create(actor *models.User, in *ArticleInput) (*models.Article, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	title, body, alias, err := s.validate(in, uuid.Nil)
	if err != nil {
		return nil, err
	}

	var photo *string
	var photoErr error
	if in.Photo != nil {
		filename, err := s.photos.Save(in.Photo.Filename, in.Photo.Data)
		if err != nil {
			photoErr = fmt.Errorf("%w: %s", ErrPhotoNotStored, err)
		} else {
			photo = &filename
		}
	}

	created, err := s.articles.Create(&models.Article{
		Title:      title,
		Body:       body,
		Alias:      alias,
		Photo:      photo,
		CategoryID: in.CategoryID,
		AuthorID:   actor.ID,
	})
	if err != nil {
		// The photo file is now orphaned; remove it.
		if photo != nil {
			if derr := s.photos.Delete(*photo); derr != nil {
				slog.Warn("orphaned photo cleanup failed", "file", *photo, "error", derr)
			}
		}
		return nil, err
	}
	return created, photoErr
}

// Update rewrites an article's content. The author is preserved: editing
// does not reassign the article to the editor. A replacement photo that
// fails to store keeps the existing photo and reports ErrPhotoNotStored.
func (s *ArticleService) Update(actor *models.User, id uuid.UUID, in *ArticleInput) (*models.Article, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	a, err := s.articles.FindByID(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	title, body, alias, err := s.validate(in, id)
	if err != nil {
		return nil, err
	}

	oldPhoto := a.Photo
	var photoErr error
	if in.Photo != nil {
		filename, err := s.photos.Save(in.Photo.Filename, in.Photo.Data)
		if err != nil {
			photoErr = fmt.Errorf("%w: %s", ErrPhotoNotStored, err)
		} else {
			a.Photo = &filename
		}
	}

	a.Title = title
	a.Body = body
	a.Alias = alias
	a.CategoryID = in.CategoryID
	if err := s.articles.Update(a); err != nil {
		return nil, err
	}

	// The old file is only released once the row points at the new one.
	if in.Photo != nil && photoErr == nil && oldPhoto != nil {
		if derr := s.photos.Delete(*oldPhoto); derr != nil {
			slog.Warn("replaced photo cleanup failed", "file", *oldPhoto, "error", derr)
		}
	}

	updated, err := s.articles.FindByID(id)
	if err != nil {
		return nil, err
	}
	return updated, photoErr
}

// SoftDelete archives an article, hiding it from public listings while
// keeping its row, alias and photo intact for a later restore.
func (s *ArticleService) SoftDelete(actor *models.User, id uuid.UUID) error {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return err
	}
	a, err := s.articles.FindByID(id)
	if err != nil {
		return err
	}
	if a == nil {
		return fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	return s.articles.SoftDelete(id)
}

// Restore brings an archived article back into public listings.
func (s *ArticleService) Restore(actor *models.User, id uuid.UUID) error {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return err
	}
	a, err := s.articles.FindByID(id)
	if err != nil {
		return err
	}
	if a == nil {
		return fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	return s.articles.Restore(id)
}

// HardDelete removes an article permanently: the row first, then its
// photo file. A failed file removal leaves a dangling file, never a
// dangling database reference; the failure is logged and not surfaced.
func (s *ArticleService) HardDelete(actor *models.User, id uuid.UUID) error {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return err
	}
	photo, err := s.articles.Delete(id)
	if err != nil {
		return err
	}
	if photo != nil {
		if derr := s.photos.Delete(*photo); derr != nil {
			slog.Warn("photo cleanup after purge failed", "file", *photo, "error", derr)
		}
	}
	return nil
}
