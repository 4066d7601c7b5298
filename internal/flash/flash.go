// Package flash carries one transient message across a redirect using a
// short-lived cookie, the way server-rendered form flows report success or
// failure without any server-side state.
package flash

import (
	"net/http"
	"net/url"
	"strings"
)

const cookieName = "pizzablog_flash"

// Message is a one-shot notice shown on the next rendered page.
type Message struct {
	Category string // "success" or "error"
	Text     string
}

// Set stores the message in the flash cookie. It overwrites any pending flash;
// only the most recent message survives a redirect chain.
func Set(w http.ResponseWriter, category, text string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    url.QueryEscape(category + ":" + text),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending flash message, if any, and clears the cookie so the
// message renders exactly once.
func Pop(w http.ResponseWriter, r *http.Request) *Message {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	category, text, found := strings.Cut(raw, ":")
	if !found {
		return &Message{Category: "success", Text: raw}
	}
	return &Message{Category: category, Text: text}
}
