package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/dukerupert/pizzablog/internal/auth"
	"github.com/dukerupert/pizzablog/internal/flash"
)

// render executes the named page template. Every page gets the current
// identity (empty string when anonymous) and any pending flash message.
func render(w http.ResponseWriter, r *http.Request, tmpl *template.Template, logger *slog.Logger, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["UserEmail"] = auth.Email(r.Context())
	if msg := flash.Pop(w, r); msg != nil {
		data["Flash"] = msg
	}

	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		logger.Error("render template", "template", name, "error", err)
	}
}
