// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestArticleCreateJoinsRelatedFields(t *testing.T) {
	db := testDB(t)

	author := seedTestUser(t, db, "redaction@lagazette.test")
	c := seedTestCategory(t, db, "Culture Test", "culture-test")

	a := mustCreateArticle(t, db, "Un vernissage à ne pas manquer", "un-vernissage-a-ne-pas-manquer", c.ID, author.ID)

	if a.CategoryAlias != "culture-test" || a.CategoryName != "Culture Test" {
		t.Fatalf("category join missing: %q / %q", a.CategoryAlias, a.CategoryName)
	}
	if a.AuthorEmail != "redaction@lagazette.test" {
		t.Fatalf("author join missing: %q", a.AuthorEmail)
	}
	if a.Photo != nil {
		t.Fatal("photo should be nil when not provided")
	}
}

func TestArticleArchiveAndRestoreVisibility(t *testing.T) {
	db := testDB(t)
	articles := NewArticleStore(db)

	author := seedTestUser(t, db, "visibilite@lagazette.test")
	c := seedTestCategory(t, db, "Visibilité", "visibilite-test")
	a := mustCreateArticle(t, db, "Article visible", "article-visible", c.ID, author.ID)

	contains := func(t *testing.T, list func() ([]uuid.UUID, error), id uuid.UUID) bool {
		t.Helper()
		ids, err := list()
		if err != nil {
			t.Fatalf("listing: %v", err)
		}
		for _, it := range ids {
			if it == id {
				return true
			}
		}
		return false
	}

	activeIDs := func() ([]uuid.UUID, error) {
		items, err := articles.ListActive()
		if err != nil {
			return nil, err
		}
		ids := make([]uuid.UUID, len(items))
		for i, it := range items {
			ids[i] = it.ID
		}
		return ids, nil
	}
	trashedIDs := func() ([]uuid.UUID, error) {
		items, err := articles.ListTrashed()
		if err != nil {
			return nil, err
		}
		ids := make([]uuid.UUID, len(items))
		for i, it := range items {
			ids[i] = it.ID
		}
		return ids, nil
	}

	if !contains(t, activeIDs, a.ID) {
		t.Fatal("new article missing from active listing")
	}

	if err := articles.SoftDelete(a.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if contains(t, activeIDs, a.ID) {
		t.Fatal("archived article leaked into active listing")
	}
	if !contains(t, trashedIDs, a.ID) {
		t.Fatal("archived article missing from trash listing")
	}

	// Direct links keep working while archived.
	byID, err := articles.FindByID(a.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID == nil || !byID.IsDeleted() {
		t.Fatal("expected the archived article by ID")
	}

	if err := articles.Restore(a.ID); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !contains(t, activeIDs, a.ID) {
		t.Fatal("restored article missing from active listing")
	}
	if contains(t, trashedIDs, a.ID) {
		t.Fatal("restored article still in trash listing")
	}
}

func TestArticleAliasExistsCountsArchivedRows(t *testing.T) {
	db := testDB(t)
	articles := NewArticleStore(db)

	author := seedTestUser(t, db, "doublon@lagazette.test")
	c := seedTestCategory(t, db, "Doublons", "doublons-test")
	other := seedTestCategory(t, db, "Autre Rubrique", "autre-rubrique-test")

	a := mustCreateArticle(t, db, "Titre partagé", "titre-partage", c.ID, author.ID)

	exists, err := articles.AliasExists(c.ID, "titre-partage", uuid.Nil)
	if err != nil {
		t.Fatalf("AliasExists: %v", err)
	}
	if !exists {
		t.Fatal("existing alias not reported")
	}

	// Archiving does not release an article alias: the row survives and a
	// restore must not collide.
	if err := articles.SoftDelete(a.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	exists, err = articles.AliasExists(c.ID, "titre-partage", uuid.Nil)
	if err != nil {
		t.Fatalf("AliasExists after archive: %v", err)
	}
	if !exists {
		t.Fatal("archived article alias should still be reserved")
	}

	// Same alias in another category is fine.
	exists, err = articles.AliasExists(other.ID, "titre-partage", uuid.Nil)
	if err != nil {
		t.Fatalf("AliasExists other category: %v", err)
	}
	if exists {
		t.Fatal("alias should be scoped to its category")
	}

	// Self-exclusion for updates.
	exists, err = articles.AliasExists(c.ID, "titre-partage", a.ID)
	if err != nil {
		t.Fatalf("AliasExists self: %v", err)
	}
	if exists {
		t.Fatal("an article should not conflict with its own alias")
	}
}

func TestArticleListingsByCategoryAndAuthor(t *testing.T) {
	db := testDB(t)
	articles := NewArticleStore(db)

	author := seedTestUser(t, db, "auteur@lagazette.test")
	other := seedTestUser(t, db, "autre-auteur@lagazette.test")
	c := seedTestCategory(t, db, "Filtrage", "filtrage-test")
	c2 := seedTestCategory(t, db, "Hors Sujet", "hors-sujet-test")

	mine := mustCreateArticle(t, db, "Mon papier", "mon-papier", c.ID, author.ID)
	mustCreateArticle(t, db, "Papier voisin", "papier-voisin", c2.ID, other.ID)

	byCategory, err := articles.ListActiveByCategory(c.ID)
	if err != nil {
		t.Fatalf("ListActiveByCategory: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].ID != mine.ID {
		t.Fatalf("expected only the article of the category, got %d", len(byCategory))
	}

	byAuthor, err := articles.ListActiveByAuthor(author.ID)
	if err != nil {
		t.Fatalf("ListActiveByAuthor: %v", err)
	}
	if len(byAuthor) != 1 || byAuthor[0].ID != mine.ID {
		t.Fatalf("expected only the author's article, got %d", len(byAuthor))
	}
}

func TestArticleUpdateKeepsCreatedAt(t *testing.T) {
	db := testDB(t)
	articles := NewArticleStore(db)

	author := seedTestUser(t, db, "horodatage@lagazette.test")
	c := seedTestCategory(t, db, "Horodatage", "horodatage-test")
	a := mustCreateArticle(t, db, "Version initiale", "version-initiale", c.ID, author.ID)

	a.Title = "Version corrigée"
	a.Body = "Corps mis à jour."
	if err := articles.Update(a); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reloaded, err := articles.FindByID(a.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if reloaded.Title != "Version corrigée" {
		t.Fatalf("title not persisted: %q", reloaded.Title)
	}
	if !reloaded.CreatedAt.Equal(a.CreatedAt) {
		t.Fatal("created_at must not change on update")
	}
	if !reloaded.UpdatedAt.After(reloaded.CreatedAt) {
		t.Fatal("updated_at should move past created_at")
	}
}

func TestArticleDeleteReturnsPhoto(t *testing.T) {
	db := testDB(t)
	articles := NewArticleStore(db)

	author := seedTestUser(t, db, "purge@lagazette.test")
	c := seedTestCategory(t, db, "Purge", "purge-test")
	a := mustCreateArticle(t, db, "À purger", "a-purger", c.ID, author.ID)

	photo := "photo-de-test.jpg"
	a.Photo = &photo
	if err := articles.Update(a); err != nil {
		t.Fatalf("Update: %v", err)
	}

	returned, err := articles.Delete(a.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if returned == nil || *returned != photo {
		t.Fatalf("expected photo %q back, got %v", photo, returned)
	}

	gone, err := articles.FindByID(a.ID)
	if err != nil {
		t.Fatalf("FindByID after delete: %v", err)
	}
	if gone != nil {
		t.Fatal("row should be gone after Delete")
	}

	// Deleting a missing row is a silent no-op.
	returned, err = articles.Delete(a.ID)
	if err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	if returned != nil {
		t.Fatal("missing row should return no photo")
	}
}
