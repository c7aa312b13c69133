package middleware

import (
	"errors"
	"net/http"
	"strings"

	"bitwise74/recipe-api/internal/service"
	"bitwise74/recipe-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewJWTMiddleware authenticates requests by their access token. The token
// is read from the Authorization header (Bearer scheme) and falls back to the
// auth_token cookie. Deleted and inactive users are rejected.
func NewJWTMiddleware(d *gorm.DB, tokens *security.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		tokenStr := bearerToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Authentication credentials were not provided",
				"requestID": requestID,
			})
			return
		}

		claims, err := tokens.Parse(tokenStr, security.TokenTypeAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Authorization token invalid",
				"requestID": requestID,
			})

			zap.L().Debug("Failed to parse token", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if _, err := service.GetUser(d, claims.UserID); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "User not found or inactive",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check if user exists", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Set("userID", claims.UserID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}

	token, err := c.Cookie("auth_token")
	if err != nil {
		return ""
	}

	return token
}
