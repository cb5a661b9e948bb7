package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookie is the name of the HttpOnly cookie carrying the signed
// session token. The same token is accepted as a Bearer header.
const SessionCookie = "session"

const (
	ctxUserID  = "userID"
	ctxIsAdmin = "isAdmin"
)

// RequireAuth rejects callers without a valid session token with 401.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !resolveSession(c, secret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": "Please login to continue",
			})
			return
		}
		c.Next()
	}
}

// OptionalAuth resolves the session when present but lets anonymous
// callers through.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		resolveSession(c, secret)
		c.Next()
	}
}

// RequireAdmin rejects authenticated non-admin callers with 403.
// Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false, "message": "Access denied. Admin only.",
			})
			return
		}
		c.Next()
	}
}

func resolveSession(c *gin.Context, secret string) bool {
	raw := sessionToken(c)
	if raw == "" {
		return false
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return false
	}

	admin, _ := claims["admin"].(bool)
	c.Set(ctxUserID, userID)
	c.Set(ctxIsAdmin, admin)
	return true
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return header[7:]
	}
	return ""
}

// GetUserID returns the caller's identity, or uuid.Nil for anonymous
// callers.
func GetUserID(c *gin.Context) uuid.UUID {
	id, _ := c.Get(ctxUserID)
	uid, _ := id.(uuid.UUID)
	return uid
}

func IsAdmin(c *gin.Context) bool {
	admin, _ := c.Get(ctxIsAdmin)
	a, _ := admin.(bool)
	return a
}
