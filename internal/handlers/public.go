// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lagazette/internal/content"
	"lagazette/internal/render"
	"lagazette/internal/session"
)

// Public serves the reader-facing pages: homepage, category listings and
// article detail. Everything here is reachable without an account.
type Public struct {
	base
	articles *content.ArticleService
}

// NewPublic creates the public handler group.
func NewPublic(renderer *render.Renderer, sessions *session.Store, articles *content.ArticleService, categories *content.CategoryService) *Public {
	return &Public{
		base:     base{renderer: renderer, sessions: sessions, categories: categories},
		articles: articles,
	}
}

// Home lists all active articles, newest first.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	articles, err := p.articles.ListActive()
	if err != nil {
		p.serverError(w, "list articles failed", err)
		return
	}

	data := p.page(r, "")
	data.Data["Articles"] = articles
	p.renderer.Page(w, r, http.StatusOK, "home", data)
}

// Categories lists the active categories as a standalone page.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	// The page data already carries the active categories for the nav;
	// the template renders the same list as its body.
	p.renderer.Page(w, r, http.StatusOK, "categories", p.page(r, "Catégories"))
}

// CategoryArticles lists the active articles of one category, resolved by
// its alias. An unknown or archived category is a 404.
func (p *Public) CategoryArticles(w http.ResponseWriter, r *http.Request) {
	alias := chi.URLParam(r, "categoryAlias")

	category, articles, err := p.articles.ListByCategoryAlias(alias)
	if errors.Is(err, content.ErrNotFound) {
		p.notFound(w, r)
		return
	}
	if err != nil {
		p.serverError(w, "list category articles failed", err)
		return
	}

	data := p.page(r, category.Name)
	data.Data["Category"] = category
	data.Data["Articles"] = articles
	p.renderer.Page(w, r, http.StatusOK, "category", data)
}

// ArticleDetail shows one article. The URL carries `{alias}_{id}`; only the
// trailing UUID is authoritative, the alias part is cosmetic. Archived
// articles stay reachable by direct link so a restore never breaks them.
func (p *Public) ArticleDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := parseArticleRef(chi.URLParam(r, "articleRef"))
	if !ok {
		p.notFound(w, r)
		return
	}

	article, err := p.articles.FindByID(id)
	if errors.Is(err, content.ErrNotFound) {
		p.notFound(w, r)
		return
	}
	if err != nil {
		p.serverError(w, "find article failed", err)
		return
	}

	data := p.page(r, article.Title)
	data.Data["Article"] = article
	p.renderer.Page(w, r, http.StatusOK, "article", data)
}

// NotFound is the catch-all for unmatched routes.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	p.notFound(w, r)
}

// parseArticleRef extracts the article ID from an `{alias}_{id}` reference.
func parseArticleRef(ref string) (uuid.UUID, bool) {
	idx := strings.LastIndex(ref, "_")
	if idx < 0 || idx == len(ref)-1 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(ref[idx+1:])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
