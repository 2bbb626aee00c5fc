// Package entrypoint wires the application together and runs the HTTP server.
package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfmark/shelfmark/internal/auth"
	"github.com/shelfmark/shelfmark/internal/config"
	"github.com/shelfmark/shelfmark/internal/database"
	"github.com/shelfmark/shelfmark/internal/database/books"
	"github.com/shelfmark/shelfmark/internal/database/reviews"
	"github.com/shelfmark/shelfmark/internal/database/users"
	http_controllers "github.com/shelfmark/shelfmark/internal/http"
	"github.com/shelfmark/shelfmark/internal/ratings"
)

// Serve runs the HTTP server until an interrupt or termination signal,
// then shuts it down gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run initializes all dependencies and starts the server.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Shelfmark v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	userRepo := users.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)
	reviewRepo := reviews.NewRepository(db.DB)

	authService := auth.NewService(userRepo, cfg.Auth)

	// Session store shares the application database
	sqlDB, err := db.SQLDB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}

	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	authMiddleware := auth.NewMiddleware(sessionManager)

	// Use the configured CSRF secret, or generate one for this process
	var csrfSecret []byte
	if cfg.Auth.SessionSecret != "" {
		csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
		if err != nil {
			// Not hex, use as raw bytes
			csrfSecret = []byte(cfg.Auth.SessionSecret)
		}
	} else {
		secret, err := auth.GenerateSessionSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		csrfSecret, err = hex.DecodeString(secret)
		if err != nil {
			log.Fatalf("Failed to decode generated CSRF secret: %v", err)
		}
		log.Printf("Generated session secret (set SESSION_SECRET to persist)")
	}

	if cfg.Ratings.APIKey == "" {
		log.Printf("WARNING: ratings API key is not set. Book pages will render without external ratings. Set 'RATINGS_API_KEY' to enable.")
	}
	ratingsClient := ratings.NewClient(cfg.Ratings.BaseURL, cfg.Ratings.APIKey, cfg.Ratings.Timeout)

	if total, err := bookRepo.Count(); err == nil && total == 0 {
		log.Printf("Catalog is empty. Run '%s import-books -csv <file>' to load books.", os.Args[0])
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		BookStore:      bookRepo,
		ReviewStore:    reviewRepo,
		Ratings:        ratingsClient,
		AuthService:    authService,
		SessionManager: sessionManager,
		AuthMiddleware: authMiddleware,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	Serve(router, cfg)
}
