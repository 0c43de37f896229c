package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rapex-ph/onboarding-backend/internal/errors"
	"github.com/rapex-ph/onboarding-backend/pkg/util"
)

// Context keys for the authenticated merchant
const (
	MerchantIDKey    = "merchant_id"
	MerchantEmailKey = "merchant_email"
)

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate validates the bearer token and loads the merchant identity
// into the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(parts[1], m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Session expired, please log in again")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authentication token")
			}
			c.Abort()
			return
		}

		c.Set(MerchantIDKey, claims.UserID)
		c.Set(MerchantEmailKey, claims.Email)

		log.Debug("Merchant authenticated", map[string]interface{}{
			"merchant_id": claims.UserID,
			"email":       claims.Email,
		})

		c.Next()
	}
}

// GetMerchantID extracts the merchant ID from context
func GetMerchantID(c *gin.Context) (uint, bool) {
	id, exists := c.Get(MerchantIDKey)
	if !exists {
		return 0, false
	}
	return id.(uint), true
}

// GetMerchantEmail extracts the merchant email from context
func GetMerchantEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(MerchantEmailKey)
	if !exists {
		return "", false
	}
	return email.(string), true
}
