package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"lagazette/internal/slug"
)

// seedCategories are the launch categories of the site.
var seedCategories = []string{
	"Politique",
	"Société",
	"Sport",
	"Cinéma",
	"Santé",
	"Mode",
	"Sciences",
	"Musique",
	"Hi Tech",
	"Écologie",
	"Gaming",
}

// Seed populates the database with initial development data: the default
// category set and an admin account. It is a no-op once users exist. The
// admin will be prompted to set up 2FA on first login (totp_enabled = false).
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	for _, name := range seedCategories {
		_, err := db.Exec(`
			INSERT INTO categories (name, alias) VALUES ($1, $2)
		`, name, slug.Generate(name))
		if err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, roles, totp_enabled)
		VALUES ($1, $2, $3, $4)
	`, "admin@lagazette.local", string(hash), "user,admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default categories and admin user",
		"email", "admin@lagazette.local",
		"password", "admin",
	)

	return nil
}
