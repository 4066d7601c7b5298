package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dukerupert/pizzablog/internal/database"
	"github.com/dukerupert/pizzablog/internal/logging"
	"github.com/dukerupert/pizzablog/internal/server"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	godotenv.Load()

	logger := logging.Setup(os.Getenv("PIZZABLOG_LOG_LEVEL"))

	port := os.Getenv("PIZZABLOG_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("PIZZABLOG_DB_PATH")
	if dbPath == "" {
		dbPath = "pizzablog.db"
	}

	staticDir := os.Getenv("PIZZABLOG_STATIC_DIR")
	if staticDir == "" {
		staticDir = "web/static"
	}

	uploadDir := os.Getenv("PIZZABLOG_UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = filepath.Join(staticDir, "uploads")
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv, err := server.New(db, server.Config{
		TemplateDir: "web/templates",
		StaticDir:   staticDir,
		UploadDir:   uploadDir,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Sweep expired sessions hourly.
	stopSweep := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Error("session sweep", "error", err)
				} else if n > 0 {
					logger.Info("session sweep", "deleted", n)
				}
			case <-stopSweep:
				return
			}
		}
	}()

	go func() {
		fmt.Printf("Pizzablog running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	close(stopSweep)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
