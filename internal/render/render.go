// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public site and
// the admin area. Every page shares one base layout carrying the category
// navigation, the signed-in state and the flash notices.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"lagazette/internal/middleware"
	"lagazette/internal/models"
	"lagazette/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to templates.
type PageData struct {
	Title      string            // Page title for the <title> tag
	User       *models.User      // Signed-in user (nil for anonymous visitors)
	Categories []models.Category // Active categories for the navigation bar
	CSRFToken  string            // CSRF token for forms
	Flashes    []session.Flash   // One-time notices popped from the session
	Errors     map[string]string // Field-level validation messages
	Form       map[string]string // Submitted values to re-fill a rejected form
	Data       map[string]any    // Page-specific data
}

// FieldError returns the validation message for a form field, if any.
func (d *PageData) FieldError(field string) string {
	return d.Errors[field]
}

// FormValue returns the previously submitted value for a form field.
func (d *PageData) FormValue(field string) string {
	return d.Form[field]
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem. Each page template is paired with the base layout.
func New() (*Renderer, error) {
	funcMap := template.FuncMap{
		// deref safely dereferences a string pointer for use in templates.
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		// excerpt shortens an article body for listing cards.
		"excerpt": func(s string, max int) string {
			runes := []rune(s)
			if len(runes) <= max {
				return s
			}
			cut := string(runes[:max])
			if idx := strings.LastIndex(cut, " "); idx > 0 {
				cut = cut[:idx]
			}
			return cut + "…"
		},
	}

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	r := &Renderer{templates: make(map[string]*template.Template)}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" {
			continue
		}

		tmpl, err := template.New("base.html").Funcs(funcMap).ParseFS(
			templateFS, "templates/base.html", "templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}

		r.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}

	return r, nil
}

// Page renders a full page with the base layout. The CSRF token and the
// signed-in user are injected from the request context when not already set.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = &PageData{}
	}
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.User == nil {
		data.User = middleware.UserFromCtx(r.Context())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := executeTemplate(w, tmpl, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// executeTemplate wraps template execution with error handling.
func executeTemplate(w io.Writer, tmpl *template.Template, data any) error {
	return tmpl.ExecuteTemplate(w, "base.html", data)
}
