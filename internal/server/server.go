package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/dukerupert/pizzablog/internal/handler"
	"github.com/dukerupert/pizzablog/internal/live"
	"github.com/dukerupert/pizzablog/internal/middleware"
	"github.com/dukerupert/pizzablog/internal/store"
	"github.com/dukerupert/pizzablog/internal/upload"
)

// Config collects the filesystem locations and logger the server needs.
type Config struct {
	TemplateDir string
	StaticDir   string
	UploadDir   string
	Logger      *slog.Logger
}

type Server struct {
	db           *sql.DB
	hub          *live.Hub
	authH        *handler.AuthHandler
	postH        *handler.PostHandler
	sessionStore *store.SessionStore
	staticDir    string
	logger       *slog.Logger
}

func New(db *sql.DB, cfg Config) (*Server, error) {
	tmpl, err := template.ParseGlob(filepath.Join(cfg.TemplateDir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	uploads, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("upload store: %w", err)
	}

	hub := live.NewHub(cfg.Logger.With("component", "live"))

	userStore := store.NewUserStore(db)
	postStore := store.NewPostStore(db)
	sessionStore := store.NewSessionStore(db)

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(userStore, sessionStore, tmpl, cfg.Logger.With("component", "auth")),
		postH:        handler.NewPostHandler(postStore, uploads, hub, tmpl, cfg.Logger.With("component", "post")),
		sessionStore: sessionStore,
		staticDir:    cfg.StaticDir,
		logger:       cfg.Logger,
	}, nil
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	loadIdentity := middleware.LoadIdentity(s.sessionStore)
	requireAuth := middleware.RequireAuth(s.sessionStore)

	// Public routes; identity is loaded when present so pages can personalize.
	mux.Handle("GET /{$}", loadIdentity(http.HandlerFunc(s.postH.Feed)))
	mux.Handle("GET /post/{id}", loadIdentity(http.HandlerFunc(s.postH.Detail)))
	mux.Handle("GET /register", loadIdentity(http.HandlerFunc(s.authH.RegisterPage)))
	mux.HandleFunc("POST /register", s.authH.Register)
	mux.Handle("GET /login", loadIdentity(http.HandlerFunc(s.authH.LoginPage)))
	mux.HandleFunc("POST /login", s.authH.Login)
	mux.HandleFunc("GET /logout", s.authH.Logout)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir))))
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", live.Handler(s.hub, s.logger.With("component", "live")))

	// Protected routes
	mux.Handle("GET /dashboard", requireAuth(http.HandlerFunc(s.postH.Dashboard)))
	mux.Handle("GET /post/new", requireAuth(http.HandlerFunc(s.postH.NewForm)))
	mux.Handle("POST /post/new", requireAuth(http.HandlerFunc(s.postH.Create)))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
