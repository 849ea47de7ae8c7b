package middleware

import (
	"strings"

	"codingclass_backend/internal/model"
	"codingclass_backend/internal/policy"
	"codingclass_backend/internal/service"
	"codingclass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const userContextKey = "currentUser"

// SessionAuth resolves the session token from the cookie or the
// Authorization header and stashes the user on the request context. With no
// valid token it aborts 401.
func SessionAuth(auth *service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := resolveUser(c, auth, cookieName)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// OptionalAuth resolves the user when a valid token is present but lets
// anonymous requests through. Listing endpoints use it to widen visibility
// for logged-in viewers.
func OptionalAuth(auth *service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := resolveUser(c, auth, cookieName); user != nil {
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

// RequireAdmin aborts unless the current user is admin or owner. Must run
// after SessionAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !policy.IsAdmin(GetUser(c)) {
			util.Forbidden(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireInstructor aborts unless the current user may author courses. Must
// run after SessionAuth.
func RequireInstructor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !policy.IsInstructorCapable(GetUser(c)) {
			util.Forbidden(c, "Instructor access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUser returns the authenticated user set by the auth middleware, or nil.
func GetUser(c *gin.Context) *model.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

func resolveUser(c *gin.Context, auth *service.AuthService, cookieName string) *model.User {
	token := ExtractToken(c, cookieName)
	if token == "" {
		return nil
	}
	user, err := auth.Authenticate(token)
	if err != nil {
		return nil
	}
	return user
}

// ExtractToken pulls the session token from the cookie, falling back to a
// bearer Authorization header for non-browser clients.
func ExtractToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
