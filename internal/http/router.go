package http

import (
	"github.com/gin-gonic/gin"

	"github.com/shelfmark/shelfmark/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's
	// request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	renderer := NewRenderer(cfg.TemplatesPath)

	// Serve static files
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	// Auth routes are public by definition
	authController := auth.NewController(cfg.AuthService, cfg.SessionManager, cfg.TemplatesPath)
	authController.RegisterRoutes(router)

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database, cfg.Version)
	searchController := NewSearchController(cfg.BookStore, cfg.SessionManager, renderer)
	booksController := NewBooksController(cfg.BookStore, cfg.ReviewStore, cfg.Ratings, cfg.SessionManager, renderer)
	reviewsController := NewReviewsController(cfg.BookStore, cfg.ReviewStore, cfg.SessionManager, renderer)
	apiController := NewAPIController(cfg.BookStore, cfg.ReviewStore)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Public JSON API
	router.GET("/api/:isbn", apiController.BookByISBN)

	// Everything below requires an authenticated session
	authed := router.Group("/")
	authed.Use(cfg.AuthMiddleware.RequireAuth())
	{
		authed.GET("/", searchController.SearchPage)
		authed.POST("/", searchController.Search)
		authed.GET("/book/:id", booksController.BookPage)
		authed.GET("/reviews", reviewsController.ReviewsPage)
		authed.POST("/reviews", reviewsController.SubmitReview)
	}

	return router
}
