package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware guards routes that require an authenticated session.
type Middleware struct {
	sessionManager *SessionManager
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(sessionManager *SessionManager) *Middleware {
	return &Middleware{sessionManager: sessionManager}
}

// RequireAuth redirects unauthenticated requests to the login page without
// invoking the wrapped handler.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.sessionManager.GetUserID(c.Request) == 0 {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
