// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lagazette/internal/content"
	"lagazette/internal/media"
	"lagazette/internal/middleware"
	"lagazette/internal/models"
	"lagazette/internal/render"
	"lagazette/internal/session"
)

// Admin groups the back-office handlers: the dashboard, the article
// lifecycle and the category lifecycle. Every mutation re-checks the
// acting principal inside the content services; the router's RequireAdmin
// chain is the first gate, not the only one.
type Admin struct {
	base
	articles *content.ArticleService
}

// NewAdmin creates the back-office handler group.
func NewAdmin(renderer *render.Renderer, sessions *session.Store, articles *content.ArticleService, categories *content.CategoryService) *Admin {
	return &Admin{
		base:     base{renderer: renderer, sessions: sessions, categories: categories},
		articles: articles,
	}
}

// Dashboard lists active articles and all categories with their counts.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromCtx(r.Context())

	articles, err := a.articles.ListActive()
	if err != nil {
		a.serverError(w, "list articles failed", err)
		return
	}
	cats, err := a.categories.List(actor)
	if err != nil {
		a.handleLifecycleError(w, r, err, "dashboard")
		return
	}

	data := a.page(r, "Tableau de bord")
	data.Data["Articles"] = articles
	data.Data["Categories"] = cats
	a.renderer.Page(w, r, http.StatusOK, "dashboard", data)
}

// Trash lists the archived articles.
func (a *Admin) Trash(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromCtx(r.Context())

	articles, err := a.articles.ListTrashed(actor)
	if err != nil {
		a.handleLifecycleError(w, r, err, "trash")
		return
	}

	data := a.page(r, "Articles archivés")
	data.Data["Articles"] = articles
	a.renderer.Page(w, r, http.StatusOK, "trash", data)
}

// ArticleNewPage renders the empty article form.
func (a *Admin) ArticleNewPage(w http.ResponseWriter, r *http.Request) {
	a.renderArticleForm(w, r, http.StatusOK, "/admin/ajouter-un-article", nil, nil, nil)
}

// ArticleCreate persists a new article authored by the acting principal.
func (a *Admin) ArticleCreate(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromCtx(r.Context())

	input, form, err := a.parseArticleForm(r)
	if err != nil {
		a.serverError(w, "parse article form failed", err)
		return
	}

	article, err := a.articles.Create(actor, input)
	if ve, ok := content.AsValidation(err); ok {
		a.renderArticleForm(w, r, http.StatusUnprocessableEntity, "/admin/ajouter-un-article", form, ve.Fields, nil)
		return
	}
	if errors.Is(err, content.ErrPhotoNotStored) {
		a.flash(w, r, session.FlashWarning, "L'article a été publié, mais la photo n'a pas pu être enregistrée.")
		http.Redirect(w, r, "/admin/tableau-de-bord", http.StatusSeeOther)
		return
	}
	if err != nil {
		a.handleLifecycleError(w, r, err, "create article")
		return
	}

	a.flash(w, r, session.FlashSuccess, "L'article « "+article.Title+" » a été publié.")
	http.Redirect(w, r, "/admin/tableau-de-bord", http.StatusSeeOther)
}

// ArticleEditPage renders the form pre-filled with an existing article.
func (a *Admin) ArticleEditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		a.notFound(w, r)
		return
	}

	article, err := a.articles.FindByID(id)
	if err != nil {
		a.handleLifecycleError(w, r, err, "find article")
		return
	}

	form := map[string]string{
		"title":       article.Title,
		"body":        article.Body,
		"category_id": article.CategoryID.String(),
	}
	a.renderArticleForm(w, r, http.StatusOK, "/admin/modifier-un-article_"+id.String(), form, nil, article.Photo)
}

// ArticleUpdate rewrites an article, keeping its original author.
func (a *Admin) ArticleUpdate(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromCtx(r.Context())

	id, ok := parseIDParam(r)
	if !ok {
		a.notFound(w, r)
		return
	}

	input, form, err := a.parseArticleForm(r)
	if err != nil {
		a.serverError(w, "parse article form failed", err)
		return
	}

	article, err := a.articles.Update(actor, id, input)
	if ve, ok := content.AsValidation(err); ok {
		a.renderArticleForm(w, r, http.StatusUnprocessableEntity, "/admin/modifier-un-article_"+id.String(), form, ve.Fields, nil)
		return
	}
	if errors.Is(err, content.ErrPhotoNotStored) {
		a.flash(w, r, session.FlashWarning, "L'article a été modifié, mais la nouvelle photo n'a pas pu être enregistrée.")
		http.Redirect(w, r, "/admin/tableau-de-bord", http.StatusSeeOther)
		return
	}
	if err != nil {
		a.handleLifecycleError(w, r, err, "update article")
		return
	}

	a.flash(w, r, session.FlashSuccess, "L'article « "+article.Title+" » a été modifié.")
	http.Redirect(w, r, "/admin/tableau-de-bord", http.StatusSeeOther)
}

// ArticleArchive moves an article to the trash.
func (a *Admin) ArticleArchive(w http.ResponseWriter, r *http.Request) {
	a.articleLifecycle(w, r, a.articles.SoftDelete,
		"L'article a été archivé.", "/admin/tableau-de-bord")
}

// ArticleRestore brings an article back from the trash.
func (a *Admin) ArticleRestore(w http.ResponseWriter, r *http.Request) {
	a.articleLifecycle(w, r, a.articles.Restore,
		"L'article a été restauré.", "/admin/voir-les-articles-archives")
}

// ArticlePurge removes an article and its photo for good.
func (a *Admin) ArticlePurge(w http.ResponseWriter, r *http.Request) {
	a.articleLifecycle(w, r, a.articles.HardDelete,
		"L'article a été supprimé définitivement.", "/admin/voir-les-articles-archives")
}

// CategoryNewPage renders the standalone add-category form.
func (a *Admin) CategoryNewPage(w http.ResponseWriter, r *http.Request) {
	data := a.page(r, "Ajouter une catégorie")
	data.Data["Action"] = "/admin/ajouter-une-categorie"
	a.renderer.Page(w, r, http.StatusOK, "category_form", data)
}

// CategoryCreate adds a category from the dashboard form.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromCtx(r.Context())

	category, err := a.categories.Create(actor, r.FormValue("name"))
	if ve, ok := content.AsValidation(err); ok {
		a.flash(w, r, session.FlashError, ve.Fields["name"])
		http.Redirect(w, r, "/admin/tableau-de-bord", http.StatusSeeOther)
		return
	}
	if err != nil {
		a.handleLifecycleError(w, r, err, "create category")
		return
	}

	a.flash(w, r, session.FlashSuccess, "La catégorie « "+category.Name+" » a été créée.")
	http.Redirect(w, r, "/admin/tableau-de-bord", http.StatusSeeOther)
}

// CategoryEditPage renders the rename form.
func (a *Admin) CategoryEditPage(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromCtx(r.Context())

	id, ok := parseIDParam(r)
	if !ok {
		a.notFound(w, r)
		return
	}

	category, err := a.categories.FindByID(actor, id)
	if err != nil {
		a.handleLifecycleError(w, r, err, "find category")
		return
	}

	data := a.page(r, "Renommer la catégorie")
	data.Data["Action"] = "/admin/modifier-une-categorie/" + id.String()
	data.Form = map[string]string{"name": category.Name}
	a.renderer.Page(w, r, http.StatusOK, "category_form", data)
}

// CategoryUpdate renames a category, re-deriving its alias.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromCtx(r.Context())

	id, ok := parseIDParam(r)
	if !ok {
		a.notFound(w, r)
		return
	}

	name := r.FormValue("name")
	category, err := a.categories.Update(actor, id, name)
	if ve, ok := content.AsValidation(err); ok {
		data := a.page(r, "Renommer la catégorie")
		data.Data["Action"] = "/admin/modifier-une-categorie/" + id.String()
		data.Form = map[string]string{"name": name}
		data.Errors = ve.Fields
		a.renderer.Page(w, r, http.StatusUnprocessableEntity, "category_form", data)
		return
	}
	if err != nil {
		a.handleLifecycleError(w, r, err, "update category")
		return
	}

	a.flash(w, r, session.FlashSuccess, "La catégorie « "+category.Name+" » a été renommée.")
	http.Redirect(w, r, "/admin/tableau-de-bord", http.StatusSeeOther)
}

// CategoryArchive hides a category from the public navigation. Its
// articles keep their reference.
func (a *Admin) CategoryArchive(w http.ResponseWriter, r *http.Request) {
	a.categoryLifecycle(w, r, a.categories.SoftDelete, "La catégorie a été archivée.")
}

// CategoryRestore brings an archived category back.
func (a *Admin) CategoryRestore(w http.ResponseWriter, r *http.Request) {
	a.categoryLifecycle(w, r, a.categories.Restore, "La catégorie a été restaurée.")
}

// CategoryPurge removes a category for good. Refused while articles still
// reference it.
func (a *Admin) CategoryPurge(w http.ResponseWriter, r *http.Request) {
	a.categoryLifecycle(w, r, a.categories.HardDelete, "La catégorie a été supprimée définitivement.")
}

// articleLifecycle runs one id-addressed article mutation and redirects.
func (a *Admin) articleLifecycle(w http.ResponseWriter, r *http.Request, op func(*models.User, uuid.UUID) error, success, target string) {
	actor := middleware.UserFromCtx(r.Context())

	id, ok := parseIDParam(r)
	if !ok {
		a.notFound(w, r)
		return
	}

	if err := op(actor, id); err != nil {
		a.handleLifecycleError(w, r, err, "article lifecycle")
		return
	}

	a.flash(w, r, session.FlashSuccess, success)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// categoryLifecycle runs one id-addressed category mutation and returns to
// the dashboard.
func (a *Admin) categoryLifecycle(w http.ResponseWriter, r *http.Request, op func(*models.User, uuid.UUID) error, success string) {
	actor := middleware.UserFromCtx(r.Context())

	id, ok := parseIDParam(r)
	if !ok {
		a.notFound(w, r)
		return
	}

	if err := op(actor, id); err != nil {
		a.handleLifecycleError(w, r, err, "category lifecycle")
		return
	}

	a.flash(w, r, session.FlashSuccess, success)
	http.Redirect(w, r, "/admin/tableau-de-bord", http.StatusSeeOther)
}

// parseArticleForm reads the multipart article form into a service input
// plus a string map used to re-fill the form after a validation failure.
func (a *Admin) parseArticleForm(r *http.Request) (*content.ArticleInput, map[string]string, error) {
	if err := r.ParseMultipartForm(media.MaxUploadSize + 1<<20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, err
	}

	form := map[string]string{
		"title":       r.FormValue("title"),
		"body":        r.FormValue("body"),
		"category_id": r.FormValue("category_id"),
	}

	input := &content.ArticleInput{
		Title: form["title"],
		Body:  form["body"],
	}
	if id, err := uuid.Parse(form["category_id"]); err == nil {
		input.CategoryID = id
	}

	if file, header, err := r.FormFile("photo"); err == nil {
		input.Photo = &content.PhotoUpload{Filename: header.Filename, Data: file}
	}

	return input, form, nil
}

// renderArticleForm renders the add/edit form with the active categories
// for the select box.
func (a *Admin) renderArticleForm(w http.ResponseWriter, r *http.Request, status int, action string, form, fieldErrors map[string]string, currentPhoto *string) {
	title := "Ajouter un article"
	if action != "/admin/ajouter-un-article" {
		title = "Modifier l'article"
	}

	data := a.page(r, title)
	data.Data["Action"] = action
	data.Data["Categories"] = data.Categories
	if currentPhoto != nil {
		data.Data["CurrentPhoto"] = *currentPhoto
	}
	data.Form = form
	data.Errors = fieldErrors
	a.renderer.Page(w, r, status, "article_form", data)
}

// handleLifecycleError maps service errors onto the right user response.
func (a *Admin) handleLifecycleError(w http.ResponseWriter, r *http.Request, err error, what string) {
	switch {
	case errors.Is(err, content.ErrAccessDenied):
		a.flash(w, r, session.FlashWarning, "Accès refusé : cette action est réservée aux administrateurs.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, content.ErrNotFound):
		a.notFound(w, r)
	case errors.Is(err, content.ErrCategoryInUse):
		a.flash(w, r, session.FlashError, "Impossible de supprimer cette catégorie : des articles y sont encore rattachés.")
		http.Redirect(w, r, "/admin/tableau-de-bord", http.StatusSeeOther)
	default:
		a.serverError(w, what+" failed", err)
	}
}

// parseIDParam reads the {id} URL parameter as a UUID.
func parseIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
