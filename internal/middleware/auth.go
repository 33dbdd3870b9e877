package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/zaqqye/pemira_backend/internal/models"
)

// SessionCookie carries the access token for browser page loads so the page
// gatekeeper can see the session without an Authorization header.
const SessionCookie = "pemira_session"

type AuthConfig struct {
	JWTSecret string
}

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	NIM    string `json:"nim,omitempty"`
	jwt.RegisteredClaims
}

// TokenFromRequest prefers the Authorization header, falling back to the
// session cookie.
func TokenFromRequest(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth != "" && strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[len("Bearer "):])
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

func ParseClaims(tokenStr, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

func AuthMiddleware(db *gorm.DB, cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := TokenFromRequest(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid authorization"})
			return
		}

		claims, err := ParseClaims(tokenStr, cfg.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		switch claims.Role {
		case "student":
			var voter models.Voter
			if err := db.Where("user_id = ?", claims.UserID).First(&voter).Error; err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
				return
			}
		case "admin":
			// Admin-ness is a row in admins, re-resolved on every request.
			// A session whose row disappeared is force-signed-out.
			var admin models.Admin
			if err := db.Where("user_id = ?", claims.UserID).First(&admin).Error; err != nil {
				now := time.Now().UTC()
				db.Model(&models.RefreshToken{}).
					Where("user_id = ? AND revoked_at IS NULL", claims.UserID).
					Update("revoked_at", &now)
				c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Akun Anda tidak memiliki akses admin"})
				return
			}
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("claims", *claims)
		c.Next()
	}
}

func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			// admin passes any role-gate
			if claims.Role != "admin" {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
				return
			}
		}
		c.Next()
	}
}

// RedirectIfNoSession protects browser page routes: a missing or unparsable
// session sends the visitor to the matching login entry point. Session
// presence only; the admin-row check happens on the API calls the page makes.
func RedirectIfNoSession(secret, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := TokenFromRequest(c)
		if tokenStr == "" {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		if _, err := ParseClaims(tokenStr, secret); err != nil {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentClaims(c *gin.Context) (Claims, bool) {
	v, ok := c.Get("claims")
	if !ok {
		return Claims{}, false
	}
	claims, ok := v.(Claims)
	return claims, ok
}
