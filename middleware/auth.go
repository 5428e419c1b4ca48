package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const (
	AdminSubjectContextKey = "admin_subject"
	adminRole              = "admin"
)

var (
	errNoSecret = errors.New("JWT secret not configured")
	errNotAdmin = errors.New("admin role required")
)

// ParseAdminToken verifies an HS256 token and returns its claims when the
// role claim is admin.
func ParseAdminToken(tokenStr string, secret []byte) (jwt.MapClaims, error) {
	if len(secret) == 0 {
		return nil, errNoSecret
	}
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid or expired token: %w", err)
	}
	if token == nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	if role, _ := claims["role"].(string); role != adminRole {
		return nil, errNotAdmin
	}
	return claims, nil
}

// AdminAuth guards the staff routes. A missing or invalid token is 401; a
// valid token without the admin role is 403.
func AdminAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if header == "" || tokenStr == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := ParseAdminToken(tokenStr, secret)
		if errors.Is(err, errNotAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		if sub, ok := claims["sub"].(string); ok {
			c.Set(AdminSubjectContextKey, sub)
		} else if uid, ok := claims["user_id"].(string); ok {
			c.Set(AdminSubjectContextKey, uid)
		}
		c.Next()
	}
}
