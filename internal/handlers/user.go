package handlers

import (
	"net/http"
	"net/mail"
	"strings"

	"lagazette/internal/content"
	"lagazette/internal/middleware"
	"lagazette/internal/models"
	"lagazette/internal/render"
	"lagazette/internal/session"
	"lagazette/internal/store"
)

// minPasswordLength is the minimum accepted password size.
const minPasswordLength = 8

// User groups the member-area handlers: registration, profile and
// password change.
type User struct {
	base
	users    *store.UserStore
	articles *content.ArticleService
}

// NewUser creates the member-area handler group.
func NewUser(renderer *render.Renderer, sessions *session.Store, users *store.UserStore, articles *content.ArticleService, categories *content.CategoryService) *User {
	return &User{
		base:     base{renderer: renderer, sessions: sessions, categories: categories},
		users:    users,
		articles: articles,
	}
}

// RegisterPage renders the sign-up form.
func (u *User) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if middleware.UserFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	u.renderer.Page(w, r, http.StatusOK, "register", u.page(r, "Inscription"))
}

// RegisterSubmit creates a regular account. New members always start with
// the plain user role; admin rights are granted out of band.
func (u *User) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("password_confirm")

	fieldErrors := map[string]string{}
	if _, err := mail.ParseAddress(email); err != nil {
		fieldErrors["email"] = "Adresse e-mail invalide."
	}
	if len(password) < minPasswordLength {
		fieldErrors["password"] = "Le mot de passe doit contenir au moins 8 caractères."
	}
	if password != confirm {
		fieldErrors["password_confirm"] = "Les mots de passe ne correspondent pas."
	}

	if len(fieldErrors) == 0 {
		existing, err := u.users.FindByEmail(email)
		if err != nil {
			u.serverError(w, "register lookup failed", err)
			return
		}
		if existing != nil {
			fieldErrors["email"] = "Un compte existe déjà avec cette adresse."
		}
	}

	if len(fieldErrors) > 0 {
		data := u.page(r, "Inscription")
		data.Errors = fieldErrors
		data.Form = map[string]string{"email": email}
		u.renderer.Page(w, r, http.StatusUnprocessableEntity, "register", data)
		return
	}

	if _, err := u.users.Create(email, password, models.RoleSet{models.RoleUser}); err != nil {
		u.serverError(w, "create user failed", err)
		return
	}

	u.flash(w, r, session.FlashSuccess, "Votre compte a été créé, vous pouvez vous connecter.")
	http.Redirect(w, r, "/connexion", http.StatusSeeOther)
}

// ProfilePage shows the member's own space with their articles.
func (u *User) ProfilePage(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	articles, err := u.articles.ListByAuthor(user.ID)
	if err != nil {
		u.serverError(w, "list own articles failed", err)
		return
	}

	data := u.page(r, "Mon espace perso")
	data.Data["Articles"] = articles
	u.renderer.Page(w, r, http.StatusOK, "profile", data)
}

// ChangePasswordPage renders the password change form.
func (u *User) ChangePasswordPage(w http.ResponseWriter, r *http.Request) {
	u.renderer.Page(w, r, http.StatusOK, "change_password", u.page(r, "Changer mon mot de passe"))
}

// ChangePasswordSubmit verifies the current password before replacing it.
func (u *User) ChangePasswordSubmit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	current := r.FormValue("current_password")
	next := r.FormValue("new_password")
	confirm := r.FormValue("new_password_confirm")

	fieldErrors := map[string]string{}
	if !u.users.CheckPassword(user, current) {
		fieldErrors["current_password"] = "Mot de passe actuel incorrect."
	}
	if len(next) < minPasswordLength {
		fieldErrors["new_password"] = "Le mot de passe doit contenir au moins 8 caractères."
	}
	if next != confirm {
		fieldErrors["new_password_confirm"] = "Les mots de passe ne correspondent pas."
	}

	if len(fieldErrors) > 0 {
		data := u.page(r, "Changer mon mot de passe")
		data.Errors = fieldErrors
		u.renderer.Page(w, r, http.StatusUnprocessableEntity, "change_password", data)
		return
	}

	if err := u.users.UpdatePassword(user.ID, next); err != nil {
		u.serverError(w, "update password failed", err)
		return
	}

	u.flash(w, r, session.FlashSuccess, "Votre mot de passe a été modifié.")
	http.Redirect(w, r, "/profile/mon-espace-perso", http.StatusSeeOther)
}
