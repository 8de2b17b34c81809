// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handler groups: public browsing,
// authentication, the member area and the admin back office. Handlers parse
// the request, call into the content services with the acting principal,
// and render a page or redirect with a flash notice.
package handlers

import (
	"log/slog"
	"net/http"

	"lagazette/internal/content"
	"lagazette/internal/render"
	"lagazette/internal/session"
)

// base carries what every handler group needs: the renderer, the session
// store for flash notices, and the category service for the navigation bar.
type base struct {
	renderer   *render.Renderer
	sessions   *session.Store
	categories *content.CategoryService
}

// page builds the PageData shared by every view: navigation categories and
// pending flash notices. Failures here degrade the page, never block it.
func (b *base) page(r *http.Request, title string) *render.PageData {
	data := &render.PageData{
		Title: title,
		Data:  map[string]any{},
	}

	cats, err := b.categories.ListActive()
	if err != nil {
		slog.Error("load navigation categories failed", "error", err)
	} else {
		data.Categories = cats
	}

	flashes, err := b.sessions.PopFlashes(r.Context(), r)
	if err != nil {
		slog.Warn("pop flashes failed", "error", err)
	} else {
		data.Flashes = flashes
	}

	return data
}

// flash queues a notice for the next page, logging instead of failing.
func (b *base) flash(w http.ResponseWriter, r *http.Request, level, message string) {
	if err := b.sessions.AddFlash(r.Context(), w, r, level, message); err != nil {
		slog.Warn("add flash failed", "error", err)
	}
}

// notFound renders the French 404 page.
func (b *base) notFound(w http.ResponseWriter, r *http.Request) {
	b.renderer.Page(w, r, http.StatusNotFound, "notfound", b.page(r, "Page introuvable"))
}

// serverError logs the failure and returns a plain 500.
func (b *base) serverError(w http.ResponseWriter, what string, err error) {
	slog.Error(what, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
