package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/pizzablog/internal/flash"
	"github.com/dukerupert/pizzablog/internal/middleware"
	"github.com/dukerupert/pizzablog/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const sessionMaxAge = 7 * 24 * 60 * 60 // seconds, matches the store's session TTL

type AuthHandler struct {
	users     *store.UserStore
	sessions  *store.SessionStore
	templates *template.Template
	logger    *slog.Logger
}

func NewAuthHandler(us *store.UserStore, ss *store.SessionStore, tmpl *template.Template, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:     us,
		sessions:  ss,
		templates: tmpl,
		logger:    logger,
	}
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.templates, h.logger, "register.html", nil)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")

	if email == "" || password == "" {
		flash.Set(w, "error", "Email and password required")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		flash.Set(w, "error", "Something went wrong")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	if _, err := h.users.Create(email, string(hash)); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			flash.Set(w, "error", "Email already registered")
		} else {
			h.logger.Error("create user", "error", err)
			flash.Set(w, "error", "Something went wrong")
		}
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	flash.Set(w, "success", "Registered. Please log in")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.templates, h.logger, "login.html", nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")

	user, err := h.users.GetByEmail(email)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		flash.Set(w, "error", "Invalid credentials")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	// Drop any session the browser was holding before binding a new identity.
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.DeleteByToken(cookie.Value); err != nil {
			h.logger.Error("clear prior session", "error", err)
		}
	}

	// The session carries the stored email, not the form input.
	sess, err := h.sessions.Create(user.Email)
	if err != nil {
		h.logger.Error("create session", "error", err)
		flash.Set(w, "error", "Something went wrong")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})

	flash.Set(w, "success", "Logged in")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.DeleteByToken(cookie.Value); err != nil {
			h.logger.Error("delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	flash.Set(w, "success", "Logged out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
