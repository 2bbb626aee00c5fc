package auth

import (
	"errors"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// Controller handles authentication-related HTTP endpoints.
type Controller struct {
	service        *Service
	sessionManager *SessionManager
	templates      *template.Template
}

// NewController creates a new authentication controller.
func NewController(service *Service, sessionManager *SessionManager, templatesPath string) *Controller {
	// Parse auth templates; fall back to JSON responses when absent
	pattern := filepath.Join(templatesPath, "auth", "*.html")
	tmpl, err := template.ParseGlob(pattern)
	if err != nil {
		tmpl = nil
	}

	return &Controller{
		service:        service,
		sessionManager: sessionManager,
		templates:      tmpl,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/login", ac.LoginPage)
	router.POST("/login", ac.Login)
	router.GET("/register", ac.RegisterPage)
	router.POST("/register", ac.Register)
	router.GET("/logout", ac.Logout)
}

// LoginPage renders the login form. Any pre-existing session is cleared so
// a fresh login always starts unauthenticated.
func (ac *Controller) LoginPage(c *gin.Context) {
	_ = ac.sessionManager.DestroySession(c.Request)

	ac.renderTemplate(c, http.StatusOK, "login.html", gin.H{
		"Title":     "Login",
		"CSRFToken": GetCSRFToken(c),
	})
}

// Login handles the login form submission.
func (ac *Controller) Login(c *gin.Context) {
	// Forget any previous user before verifying credentials
	_ = ac.sessionManager.DestroySession(c.Request)

	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := ac.service.Authenticate(username, password)
	if err != nil {
		status, msg := loginError(err)
		ac.renderTemplate(c, status, "login.html", gin.H{
			"Title":     "Login",
			"Username":  username,
			"CSRFToken": GetCSRFToken(c),
			"Error":     msg,
		})
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		ac.renderTemplate(c, http.StatusInternalServerError, "login.html", gin.H{
			"Title":     "Login",
			"Username":  username,
			"CSRFToken": GetCSRFToken(c),
			"Error":     "Failed to create session",
		})
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func loginError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUsernameRequired):
		return http.StatusBadRequest, "must provide username"
	case errors.Is(err, ErrPasswordRequired):
		return http.StatusBadRequest, "must provide password"
	case errors.Is(err, ErrInvalidUsername):
		return http.StatusBadRequest, "invalid username"
	case errors.Is(err, ErrInvalidPassword):
		return http.StatusBadRequest, "invalid password"
	}
	return http.StatusInternalServerError, "couldn't get user"
}

// RegisterPage renders the registration form.
func (ac *Controller) RegisterPage(c *gin.Context) {
	_ = ac.sessionManager.DestroySession(c.Request)

	ac.renderTemplate(c, http.StatusOK, "register.html", gin.H{
		"Title":     "Register",
		"CSRFToken": GetCSRFToken(c),
	})
}

// Register handles the registration form submission. On success the new
// account is logged in immediately.
func (ac *Controller) Register(c *gin.Context) {
	_ = ac.sessionManager.DestroySession(c.Request)

	username := c.PostForm("username")
	password := c.PostForm("password")
	confirmation := c.PostForm("confirmation")

	user, err := ac.service.Register(username, password, confirmation)
	if err != nil {
		status, msg := registerError(err)
		ac.renderTemplate(c, status, "register.html", gin.H{
			"Title":     "Register",
			"Username":  username,
			"CSRFToken": GetCSRFToken(c),
			"Error":     msg,
		})
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		ac.renderTemplate(c, http.StatusInternalServerError, "register.html", gin.H{
			"Title":     "Register",
			"Username":  username,
			"CSRFToken": GetCSRFToken(c),
			"Error":     "Failed to create session",
		})
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func registerError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUsernameRequired):
		return http.StatusBadRequest, "must provide username"
	case errors.Is(err, ErrPasswordRequired):
		return http.StatusBadRequest, "must provide password"
	case errors.Is(err, ErrConfirmationRequired):
		return http.StatusBadRequest, "must provide password confirmation"
	case errors.Is(err, ErrPasswordMismatch):
		return http.StatusBadRequest, "passwords do not match"
	case errors.Is(err, ErrUsernameTaken):
		return http.StatusBadRequest, "username taken"
	}
	return http.StatusInternalServerError, "couldn't update database"
}

// Logout destroys the session and redirects to login. No failure modes: a
// session that cannot be destroyed is simply left to expire.
func (ac *Controller) Logout(c *gin.Context) {
	_ = ac.sessionManager.DestroySession(c.Request)
	c.Redirect(http.StatusFound, "/login")
}

// renderTemplate renders an auth template or falls back to JSON.
func (ac *Controller) renderTemplate(c *gin.Context, status int, name string, data gin.H) {
	if ac.templates == nil {
		c.JSON(status, data)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := ac.templates.ExecuteTemplate(c.Writer, name, data); err != nil {
		c.String(http.StatusInternalServerError, "Template error: %v", err)
	}
}
