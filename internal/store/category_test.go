// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestCategoryLifecycle(t *testing.T) {
	db := testDB(t)
	categories := NewCategoryStore(db)

	c := seedTestCategory(t, db, "Politique Test", "politique-test")
	if c.ID == uuid.Nil {
		t.Fatal("expected a generated ID")
	}
	if c.DeletedAt != nil {
		t.Fatal("new category should not be archived")
	}

	// Visible by alias while active.
	found, err := categories.FindActiveByAlias("politique-test")
	if err != nil {
		t.Fatalf("FindActiveByAlias: %v", err)
	}
	if found == nil || found.ID != c.ID {
		t.Fatal("expected to find the active category by alias")
	}

	// Archive hides it from alias lookups and the active listing.
	if err := categories.SoftDelete(c.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	found, err = categories.FindActiveByAlias("politique-test")
	if err != nil {
		t.Fatalf("FindActiveByAlias after archive: %v", err)
	}
	if found != nil {
		t.Fatal("archived category should not resolve by alias")
	}

	active, err := categories.ListActive()
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	for _, it := range active {
		if it.ID == c.ID {
			t.Fatal("archived category leaked into ListActive")
		}
	}

	// The row itself is still reachable by ID for the admin views.
	byID, err := categories.FindByID(c.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID == nil || byID.DeletedAt == nil {
		t.Fatal("expected the archived row with its deleted_at stamp")
	}

	// Restore brings it back.
	if err := categories.Restore(c.ID); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	found, err = categories.FindActiveByAlias("politique-test")
	if err != nil {
		t.Fatalf("FindActiveByAlias after restore: %v", err)
	}
	if found == nil {
		t.Fatal("restored category should resolve by alias again")
	}
}

func TestCategoryArchiveFreesAlias(t *testing.T) {
	db := testDB(t)
	categories := NewCategoryStore(db)

	first := seedTestCategory(t, db, "Sport Ancien", "sport-test")
	if err := categories.SoftDelete(first.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	// The archived row no longer blocks the alias for active categories.
	exists, err := categories.AliasExists("sport-test", uuid.Nil)
	if err != nil {
		t.Fatalf("AliasExists: %v", err)
	}
	if exists {
		t.Fatal("archived category should not reserve its alias")
	}

	// The partial unique index permits a fresh active row with the same alias.
	second := seedTestCategory(t, db, "Sport Nouveau", "sport-test")
	if second.ID == first.ID {
		t.Fatal("expected a distinct row")
	}

	// And the fresh active row blocks the alias again.
	exists, err = categories.AliasExists("sport-test", uuid.Nil)
	if err != nil {
		t.Fatalf("AliasExists: %v", err)
	}
	if !exists {
		t.Fatal("active category should reserve its alias")
	}

	// Self-exclusion for updates.
	exists, err = categories.AliasExists("sport-test", second.ID)
	if err != nil {
		t.Fatalf("AliasExists self: %v", err)
	}
	if exists {
		t.Fatal("a category should not conflict with its own alias")
	}
}

func TestCategoryCountArticles(t *testing.T) {
	db := testDB(t)
	categories := NewCategoryStore(db)
	articles := NewArticleStore(db)

	author := seedTestUser(t, db, "comptage@lagazette.test")
	c := seedTestCategory(t, db, "Comptage", "comptage-test")

	a1 := mustCreateArticle(t, db, "Premier article", "premier-article", c.ID, author.ID)
	mustCreateArticle(t, db, "Deuxième article", "deuxieme-article", c.ID, author.ID)

	active, total, err := categories.CountArticles(c.ID)
	if err != nil {
		t.Fatalf("CountArticles: %v", err)
	}
	if active != 2 || total != 2 {
		t.Fatalf("expected 2/2, got %d/%d", active, total)
	}

	// Archived articles leave the active count but keep the reference.
	if err := articles.SoftDelete(a1.ID); err != nil {
		t.Fatalf("SoftDelete article: %v", err)
	}
	active, total, err = categories.CountArticles(c.ID)
	if err != nil {
		t.Fatalf("CountArticles after archive: %v", err)
	}
	if active != 1 || total != 2 {
		t.Fatalf("expected 1/2, got %d/%d", active, total)
	}
}

func TestCategoryListIncludesArticleCounts(t *testing.T) {
	db := testDB(t)
	categories := NewCategoryStore(db)

	author := seedTestUser(t, db, "liste@lagazette.test")
	c := seedTestCategory(t, db, "Liste Comptée", "liste-comptee-test")
	mustCreateArticle(t, db, "Un article compté", "un-article-compte", c.ID, author.ID)

	all, err := categories.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	var found bool
	for _, it := range all {
		if it.ID == c.ID {
			found = true
			if it.ArticleCount != 1 {
				t.Fatalf("expected ArticleCount 1, got %d", it.ArticleCount)
			}
		}
	}
	if !found {
		t.Fatal("seeded category missing from List")
	}
}

func TestCategoryUpdate(t *testing.T) {
	db := testDB(t)
	categories := NewCategoryStore(db)

	c := seedTestCategory(t, db, "Avant", "avant-test")
	c.Name = "Après"
	c.Alias = "apres-test"
	if err := categories.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reloaded, err := categories.FindByID(c.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if reloaded.Name != "Après" || reloaded.Alias != "apres-test" {
		t.Fatalf("update not persisted: %q / %q", reloaded.Name, reloaded.Alias)
	}
	if !reloaded.UpdatedAt.After(reloaded.CreatedAt) {
		t.Fatal("updated_at should move past created_at")
	}
}
