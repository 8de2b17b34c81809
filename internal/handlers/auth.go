package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"lagazette/internal/content"
	"lagazette/internal/middleware"
	"lagazette/internal/render"
	"lagazette/internal/session"
	"lagazette/internal/store"
)

// totpIssuer is the issuer label shown in authenticator apps.
const totpIssuer = "La Gazette"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	base
	users *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, users *store.UserStore, categories *content.CategoryService) *Auth {
	return &Auth{
		base:  base{renderer: renderer, sessions: sessions, categories: categories},
		users: users,
	}
}

// LoginPage renders the login form. Signed-in visitors go home.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.UserFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, http.StatusOK, "login", a.page(r, "Connexion"))
}

// LoginSubmit processes the login form. Admin accounts continue to the
// TOTP challenge; regular users are signed in immediately.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	user, err := a.users.FindByEmail(email)
	if err != nil {
		a.serverError(w, "login lookup failed", err)
		return
	}

	// One message for both unknown email and wrong password.
	if user == nil || !a.users.CheckPassword(user, password) {
		data := a.page(r, "Connexion")
		data.Errors = map[string]string{"email": "Identifiants invalides."}
		data.Form = map[string]string{"email": email}
		a.renderer.Page(w, r, http.StatusUnprocessableEntity, "login", data)
		return
	}

	// The session starts with the TOTP challenge pending; only admin
	// accounts are ever asked to complete it.
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Email:     user.Email,
		TwoFADone: false,
		Flashes:   []session.Flash{{Level: session.FlashSuccess, Message: "Vous êtes connecté."}},
	})
	if err != nil {
		a.serverError(w, "session create failed", err)
		return
	}

	if user.IsAdmin() {
		if user.Needs2FASetup() {
			http.Redirect(w, r, "/admin/2fa/configuration", http.StatusSeeOther)
		} else {
			http.Redirect(w, r, "/admin/2fa/verification", http.StatusSeeOther)
		}
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// TwoFASetupPage generates a TOTP secret and displays the QR code.
func (a *Auth) TwoFASetupPage(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Redirect(w, r, "/connexion", http.StatusSeeOther)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		a.serverError(w, "totp generate failed", err)
		return
	}

	if err := a.users.SetTOTPSecret(user.ID, key.Secret()); err != nil {
		a.serverError(w, "save totp secret failed", err)
		return
	}

	a.renderTOTPSetup(w, r, key.URL(), key.Secret(), "")
}

// TwoFASetupSubmit validates the first code against the stored secret and
// enables TOTP for the account.
func (a *Auth) TwoFASetupSubmit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Redirect(w, r, "/connexion", http.StatusSeeOther)
		return
	}
	if user.TOTPSecret == nil {
		http.Redirect(w, r, "/admin/2fa/configuration", http.StatusSeeOther)
		return
	}

	if !totp.Validate(r.FormValue("code"), *user.TOTPSecret) {
		url := otpauthURL(user.Email, *user.TOTPSecret)
		a.renderTOTPSetup(w, r, url, *user.TOTPSecret, "Code invalide, réessayez.")
		return
	}

	if err := a.users.EnableTOTP(user.ID); err != nil {
		a.serverError(w, "enable totp failed", err)
		return
	}

	a.completeChallenge(w, r)
}

// TwoFAVerifyPage renders the code entry form for enrolled admins.
func (a *Auth) TwoFAVerifyPage(w http.ResponseWriter, r *http.Request) {
	if middleware.UserFromCtx(r.Context()) == nil {
		http.Redirect(w, r, "/connexion", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, http.StatusOK, "twofa_verify", a.page(r, "Double authentification"))
}

// TwoFAVerifySubmit validates the TOTP code and completes authentication.
func (a *Auth) TwoFAVerifySubmit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Redirect(w, r, "/connexion", http.StatusSeeOther)
		return
	}
	if user.TOTPSecret == nil {
		http.Redirect(w, r, "/admin/2fa/configuration", http.StatusSeeOther)
		return
	}

	if !totp.Validate(r.FormValue("code"), *user.TOTPSecret) {
		data := a.page(r, "Double authentification")
		data.Errors = map[string]string{"code": "Code invalide, réessayez."}
		a.renderer.Page(w, r, http.StatusUnprocessableEntity, "twofa_verify", data)
		return
	}

	a.completeChallenge(w, r)
}

// Logout destroys the session and sends the visitor home.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// completeChallenge marks the TOTP challenge done and enters the admin.
func (a *Auth) completeChallenge(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/connexion", http.StatusSeeOther)
		return
	}
	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		a.serverError(w, "session update failed", err)
		return
	}

	http.Redirect(w, r, "/admin/tableau-de-bord", http.StatusSeeOther)
}

// renderTOTPSetup renders the enrollment page with a QR code for the
// otpauth URL.
func (a *Auth) renderTOTPSetup(w http.ResponseWriter, r *http.Request, otpURL, secret, codeError string) {
	qrPNG, err := qrcode.Encode(otpURL, qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
	}

	data := a.page(r, "Double authentification")
	data.Data["QRCode"] = base64.StdEncoding.EncodeToString(qrPNG)
	data.Data["Secret"] = secret
	status := http.StatusOK
	if codeError != "" {
		data.Errors = map[string]string{"code": codeError}
		status = http.StatusUnprocessableEntity
	}
	a.renderer.Page(w, r, status, "twofa_setup", data)
}

// otpauthURL rebuilds the provisioning URL for an already stored secret.
func otpauthURL(email, secret string) string {
	return "otpauth://totp/" + totpIssuer + ":" + email + "?secret=" + secret + "&issuer=" + totpIssuer
}
