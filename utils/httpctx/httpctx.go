// Package httpctx reads the caller identity that the auth middlewares
// stamp onto a gin context, so handler code never touches the raw
// context keys.
package httpctx

import "github.com/gin-gonic/gin"

// Context keys written by TokenAuthMiddleware and OptionalAuthMiddleware.
const (
	userIDKey  = "userID"
	isAdminKey = "isAdmin"
)

// CurrentUserID returns the authenticated caller's id. The second
// return is false for anonymous requests, which optional-auth routes
// treat as a read-only viewer.
func CurrentUserID(c *gin.Context) (uint, bool) {
	val, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	uid, ok := val.(uint)
	return uid, ok
}

// IsAdminRequest reports whether the caller carries the admin flag.
// Anonymous requests are never admin.
func IsAdminRequest(c *gin.Context) bool {
	val, ok := c.Get(isAdminKey)
	if !ok {
		return false
	}
	admin, ok := val.(bool)
	return ok && admin
}
