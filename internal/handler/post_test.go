package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/dukerupert/pizzablog/internal/auth"
	"github.com/dukerupert/pizzablog/internal/database"
	"github.com/dukerupert/pizzablog/internal/live"
	"github.com/dukerupert/pizzablog/internal/store"
	"github.com/dukerupert/pizzablog/internal/upload"
)

func setupPostHandler(t *testing.T) (*PostHandler, *store.PostStore, *upload.Store) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ps := store.NewPostStore(db)
	us, err := upload.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new upload store: %v", err)
	}
	hub := live.NewHub(slog.Default())
	return NewPostHandler(ps, us, hub, testTemplates, slog.Default()), ps, us
}

func authedRequest(t *testing.T, req *http.Request, email string) *http.Request {
	t.Helper()
	return req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{Email: email}))
}

// multipartBody builds a new-post form body with the given fields and image.
func multipartBody(t *testing.T, fields map[string]string, imageName string, imageData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if imageName != "" {
		fw, err := mw.CreateFormFile("image", imageName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(imageData); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestFeedListsSeededPosts(t *testing.T) {
	h, _, _ := setupPostHandler(t)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	h.Feed(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); !strings.Contains(got, "feed:6") {
		t.Errorf("body = %q, want the 6 seeded posts", got)
	}
}

func TestDetailRendersPost(t *testing.T) {
	h, ps, _ := setupPostHandler(t)

	created, err := ps.Create("Calzone", "alice@example.com", "", "", "", "")
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	req := httptest.NewRequest("GET", fmt.Sprintf("/post/%d", created.ID), nil)
	req.SetPathValue("id", strconv.FormatInt(created.ID, 10))
	rec := httptest.NewRecorder()
	h.Detail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); !strings.Contains(got, "post:Calzone") {
		t.Errorf("body = %q, want rendered post", got)
	}
}

func TestDetailNotFoundRedirectsToFeed(t *testing.T) {
	h, _, _ := setupPostHandler(t)

	req := httptest.NewRequest("GET", "/post/99999", nil)
	req.SetPathValue("id", "99999")
	rec := httptest.NewRecorder()
	h.Detail(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want %q", loc, "/")
	}
}

func TestDetailMalformedID(t *testing.T) {
	h, _, _ := setupPostHandler(t)

	req := httptest.NewRequest("GET", "/post/abc", nil)
	req.SetPathValue("id", "abc")
	rec := httptest.NewRecorder()
	h.Detail(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want %q", loc, "/")
	}
}

func TestDashboardShowsOwnPostsOnly(t *testing.T) {
	h, ps, _ := setupPostHandler(t)

	if _, err := ps.Create("Mine", "alice@example.com", "", "", "", ""); err != nil {
		t.Fatalf("create post: %v", err)
	}
	if _, err := ps.Create("Theirs", "bob@example.com", "", "", "", ""); err != nil {
		t.Fatalf("create post: %v", err)
	}

	req := authedRequest(t, httptest.NewRequest("GET", "/dashboard", nil), "alice@example.com")
	rec := httptest.NewRecorder()
	h.Dashboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); !strings.Contains(got, "mine:1") {
		t.Errorf("body = %q, want exactly alice's post", got)
	}
}

func TestCreatePost(t *testing.T) {
	h, ps, us := setupPostHandler(t)

	body, contentType := multipartBody(t, map[string]string{
		"title":        "Quattro Formaggi",
		"content":      "Four cheeses",
		"ingredients":  "Gorgonzola\nFontina\nParmesan\nMozzarella",
		"instructions": "1. Mix cheeses\n2. Bake",
	}, "cheese.png", []byte("pngbytes"))

	req := httptest.NewRequest("POST", "/post/new", body)
	req.Header.Set("Content-Type", contentType)
	req = authedRequest(t, req, "alice@example.com")
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/post/") {
		t.Fatalf("Location = %q, want post detail", loc)
	}

	posts, err := ps.ListByAuthor("alice@example.com")
	if err != nil {
		t.Fatalf("list by author: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("len(posts) = %d, want 1", len(posts))
	}
	p := posts[0]
	if p.Title != "Quattro Formaggi" {
		t.Errorf("title = %q, want %q", p.Title, "Quattro Formaggi")
	}
	if p.Author != "alice@example.com" {
		t.Errorf("author = %q, want session identity", p.Author)
	}
	if p.ImagePath != "uploads/cheese.png" {
		t.Errorf("image path = %q, want %q", p.ImagePath, "uploads/cheese.png")
	}

	data, err := os.ReadFile(filepath.Join(us.Dir(), "cheese.png"))
	if err != nil {
		t.Fatalf("read uploaded file: %v", err)
	}
	if string(data) != "pngbytes" {
		t.Errorf("uploaded contents = %q, want %q", data, "pngbytes")
	}
}

func TestCreatePostRejectsBadExtension(t *testing.T) {
	h, ps, _ := setupPostHandler(t)

	body, contentType := multipartBody(t, map[string]string{
		"title": "Nope",
	}, "notes.txt", []byte("not an image"))

	req := httptest.NewRequest("POST", "/post/new", body)
	req.Header.Set("Content-Type", contentType)
	req = authedRequest(t, req, "alice@example.com")
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/post/new" {
		t.Errorf("Location = %q, want %q", loc, "/post/new")
	}

	posts, err := ps.ListByAuthor("alice@example.com")
	if err != nil {
		t.Fatalf("list by author: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("len(posts) = %d, want 0 after rejected upload", len(posts))
	}
}

func TestCreatePostMissingImage(t *testing.T) {
	h, _, _ := setupPostHandler(t)

	body, contentType := multipartBody(t, map[string]string{
		"title": "No image",
	}, "", nil)

	req := httptest.NewRequest("POST", "/post/new", body)
	req.Header.Set("Content-Type", contentType)
	req = authedRequest(t, req, "alice@example.com")
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/post/new" {
		t.Errorf("Location = %q, want %q", loc, "/post/new")
	}
}
