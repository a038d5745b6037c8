package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"auction-marketplace/internal/auth"
	"auction-marketplace/internal/config"
	"auction-marketplace/internal/models"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}

// AuthMiddleware validates the bearer token and stores the caller's identity
// on the request context. Rejections carry a machine-readable reason code so
// clients can tell an expired session from a bad token without inspecting
// message text.
func AuthMiddleware(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			utils.JSONReason(c, http.StatusUnauthorized, "missing_token", "authentication required")
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(cfg, token)
		if err != nil {
			reason := "invalid_token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				reason = "session_expired"
			}
			utils.JSONReason(c, http.StatusUnauthorized, reason, "authentication failed")
			c.Abort()
			return
		}

		c.Set(auth.ContextUserID, claims.UserID)
		c.Set(auth.ContextRole, string(claims.Role))
		c.Next()
	}
}

// RequireRole rejects requests whose authenticated role does not match.
// Must run after AuthMiddleware.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(auth.ContextRole) != string(role) {
			utils.JSONReason(c, http.StatusForbidden, "forbidden", "operation not permitted")
			c.Abort()
			return
		}
		c.Next()
	}
}
