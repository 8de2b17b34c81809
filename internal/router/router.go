// Package router sets up all HTTP routes and middleware chains for the
// La Gazette server. It organizes routes into public, member and admin
// groups with appropriate middleware stacks. Every state-changing
// operation is a POST; links never mutate anything.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lagazette/internal/handlers"
	"lagazette/internal/middleware"
	"lagazette/internal/session"
	"lagazette/internal/store"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. uploadsDir is served read-only under /uploads.
func New(
	sessions *session.Store,
	users *store.UserStore,
	admin *handlers.Admin,
	auth *handlers.Auth,
	member *handlers.User,
	public *handlers.Public,
	uploadsDir string,
	secureCookies bool,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessions, users))
	r.Use(middleware.NewCSRF(secureCookies))

	// Health check — no session, no rendering.
	r.Get("/health", healthHandler)

	// Uploaded photos, served as static files.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(uploadsDir))))

	// Login and registration, rate limited against brute force.
	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Get("/connexion", auth.LoginPage)
		r.Post("/connexion", auth.LoginSubmit)
		// The historical misspelling is part of the site's public URLs.
		r.Get("/inscritpion", member.RegisterPage)
		r.Post("/inscritpion", member.RegisterSubmit)
	})
	r.Post("/deconnexion", auth.Logout)

	// Member area.
	r.Route("/profile", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/mon-espace-perso", member.ProfilePage)
		r.Get("/changer-mon-mot-de-passe", member.ChangePasswordPage)
		r.Post("/changer-mon-mot-de-passe", member.ChangePasswordSubmit)
	})

	// Admin back office.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireAdmin(sessions))

		// TOTP enrollment and challenge — before Require2FA so the
		// challenge pages themselves stay reachable.
		r.Get("/2fa/configuration", auth.TwoFASetupPage)
		r.Post("/2fa/configuration", auth.TwoFASetupSubmit)
		r.Get("/2fa/verification", auth.TwoFAVerifyPage)
		r.Post("/2fa/verification", auth.TwoFAVerifySubmit)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Require2FA)

			r.Get("/tableau-de-bord", admin.Dashboard)
			r.Get("/voir-les-articles-archives", admin.Trash)

			r.Get("/ajouter-un-article", admin.ArticleNewPage)
			r.Post("/ajouter-un-article", admin.ArticleCreate)
			r.Get("/modifier-un-article_{id}", admin.ArticleEditPage)
			r.Post("/modifier-un-article_{id}", admin.ArticleUpdate)
			r.Post("/archiver-un-article_{id}", admin.ArticleArchive)
			r.Post("/restaurer-un-article_{id}", admin.ArticleRestore)
			r.Post("/supprimer-un-article_{id}", admin.ArticlePurge)

			r.Get("/ajouter-une-categorie", admin.CategoryNewPage)
			r.Post("/ajouter-une-categorie", admin.CategoryCreate)
			r.Get("/modifier-une-categorie/{id}", admin.CategoryEditPage)
			r.Post("/modifier-une-categorie/{id}", admin.CategoryUpdate)
			r.Post("/archiver-une-categorie/{id}", admin.CategoryArchive)
			r.Post("/restaurer-une-categorie/{id}", admin.CategoryRestore)
			r.Post("/supprimer-une-categorie/{id}", admin.CategoryPurge)
		})
	})

	// Public browsing. The article route keeps the original two-segment
	// shape `/{category}/{alias}_{id}`.
	r.Get("/", public.Home)
	r.Get("/categories", public.Categories)
	r.Get("/voir-articles/{categoryAlias}", public.CategoryArticles)
	r.Get("/{categoryAlias}/{articleRef}", public.ArticleDetail)

	r.NotFound(public.NotFound)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
