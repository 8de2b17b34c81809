// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"lagazette/internal/database"
	"lagazette/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "lagazette")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "lagazette")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// seedTestUser inserts a user for foreign keys and removes it afterwards.
func seedTestUser(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()

	user, err := NewUserStore(db).Create(email, "motdepasse", models.RoleSet{models.RoleUser, models.RoleAdmin})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM articles WHERE author_id = $1", user.ID)
		db.Exec("DELETE FROM users WHERE id = $1", user.ID)
	})
	return user
}

// seedTestCategory inserts a category and removes it (and its articles)
// afterwards.
func seedTestCategory(t *testing.T, db *sql.DB, name, alias string) *models.Category {
	t.Helper()

	c, err := NewCategoryStore(db).Create(&models.Category{Name: name, Alias: alias})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM articles WHERE category_id = $1", c.ID)
		db.Exec("DELETE FROM categories WHERE id = $1", c.ID)
	})
	return c
}

// mustCreateArticle inserts an article row for tests.
func mustCreateArticle(t *testing.T, db *sql.DB, title, alias string, categoryID, authorID uuid.UUID) *models.Article {
	t.Helper()

	a, err := NewArticleStore(db).Create(&models.Article{
		Title:      title,
		Body:       "Le corps de l'article de test.",
		Alias:      alias,
		CategoryID: categoryID,
		AuthorID:   authorID,
	})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}
	return a
}
