package middleware

import (
	"net/http"

	"github.com/dukerupert/pizzablog/internal/auth"
	"github.com/dukerupert/pizzablog/internal/flash"
	"github.com/dukerupert/pizzablog/internal/store"
)

// SessionCookieName holds the server-side session token.
const SessionCookieName = "pizzablog_session"

// RequireAuth validates the session cookie and puts the identity on the
// request context. Unauthenticated requests are flashed and sent to /login.
func RequireAuth(sessionStore *store.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				redirectToLogin(w, r)
				return
			}

			sess, err := sessionStore.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				redirectToLogin(w, r)
				return
			}

			id := auth.Identity{
				Email:        sess.UserEmail,
				SessionToken: sess.Token,
			}

			ctx := auth.WithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoadIdentity is like RequireAuth but never blocks: public pages use it to
// personalize output when a valid session happens to be present.
func LoadIdentity(sessionStore *store.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err == nil && cookie.Value != "" {
				if sess, err := sessionStore.GetByToken(cookie.Value); err == nil && sess != nil {
					ctx := auth.WithIdentity(r.Context(), auth.Identity{
						Email:        sess.UserEmail,
						SessionToken: sess.Token,
					})
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	flash.Set(w, "error", "Please log in")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
