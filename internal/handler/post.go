package handler

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/pizzablog/internal/auth"
	"github.com/dukerupert/pizzablog/internal/flash"
	"github.com/dukerupert/pizzablog/internal/live"
	"github.com/dukerupert/pizzablog/internal/store"
	"github.com/dukerupert/pizzablog/internal/upload"
)

type PostHandler struct {
	posts     *store.PostStore
	uploads   *upload.Store
	hub       *live.Hub
	templates *template.Template
	logger    *slog.Logger
}

func NewPostHandler(ps *store.PostStore, us *upload.Store, hub *live.Hub, tmpl *template.Template, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		posts:     ps,
		uploads:   us,
		hub:       hub,
		templates: tmpl,
		logger:    logger,
	}
}

// Feed renders the public list of all posts, newest first.
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List()
	if err != nil {
		h.logger.Error("list posts", "error", err)
		http.Error(w, "failed to load posts", http.StatusInternalServerError)
		return
	}

	render(w, r, h.templates, h.logger, "index.html", map[string]any{
		"Posts": posts,
	})
}

// Detail renders a single post. Missing or malformed ids send the reader back
// to the feed with a notice instead of a 404 page.
func (h *PostHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		flash.Set(w, "error", "Post not found")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	post, err := h.posts.GetByID(id)
	if err != nil {
		h.logger.Error("get post", "id", id, "error", err)
		http.Error(w, "failed to load post", http.StatusInternalServerError)
		return
	}
	if post == nil {
		flash.Set(w, "error", "Post not found")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	render(w, r, h.templates, h.logger, "post_view.html", map[string]any{
		"Post": post,
	})
}

// Dashboard lists the current user's own posts. RequireAuth guarantees an
// identity is present.
func (h *PostHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	email := auth.Email(r.Context())

	posts, err := h.posts.ListByAuthor(email)
	if err != nil {
		h.logger.Error("list posts by author", "error", err)
		http.Error(w, "failed to load posts", http.StatusInternalServerError)
		return
	}

	render(w, r, h.templates, h.logger, "dashboard.html", map[string]any{
		"MyPosts": posts,
	})
}

func (h *PostHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.templates, h.logger, "post_new.html", nil)
}

// Create validates the submitted recipe, stores the image, inserts the post
// with the session identity as author, and redirects to the new post.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxUploadBytes)
	if err := r.ParseMultipartForm(upload.MaxUploadBytes); err != nil {
		flash.Set(w, "error", "Image too large (4 MB max)")
		http.Redirect(w, r, "/post/new", http.StatusSeeOther)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	content := strings.TrimSpace(r.FormValue("content"))
	ingredients := strings.TrimSpace(r.FormValue("ingredients"))
	instructions := strings.TrimSpace(r.FormValue("instructions"))

	file, header, err := r.FormFile("image")
	if err != nil {
		flash.Set(w, "error", "Image required")
		http.Redirect(w, r, "/post/new", http.StatusSeeOther)
		return
	}
	defer file.Close()

	imagePath, err := h.uploads.Save(header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrMissingFile):
			flash.Set(w, "error", "No image selected")
		case errors.Is(err, upload.ErrInvalidExtension):
			flash.Set(w, "error", "Invalid image type")
		default:
			h.logger.Error("save upload", "error", err)
			flash.Set(w, "error", "Could not save image")
		}
		http.Redirect(w, r, "/post/new", http.StatusSeeOther)
		return
	}

	post, err := h.posts.Create(title, auth.Email(r.Context()), content, ingredients, instructions, imagePath)
	if err != nil {
		h.logger.Error("create post", "error", err)
		flash.Set(w, "error", "Could not create post")
		http.Redirect(w, r, "/post/new", http.StatusSeeOther)
		return
	}

	h.hub.Broadcast(live.NewPostCreated(post.ID, post.Title, post.Author))

	flash.Set(w, "success", "Post created")
	http.Redirect(w, r, fmt.Sprintf("/post/%d", post.ID), http.StatusSeeOther)
}
