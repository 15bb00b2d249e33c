package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	// AuthHeaderKey is the header carrying a bearer token
	AuthHeaderKey = "Authorization"
	// BearerPrefix prefixes the token in AuthHeaderKey
	BearerPrefix = "Bearer "
	// DefaultSessionCookie is the httpOnly cookie set at admin login
	DefaultSessionCookie = "token"

	// JWTClaimsKey is the gin context key holding *auth.Claims
	JWTClaimsKey = "jwt_claims"
	// JWTUserIDKey is the gin context key holding the admin's user ID
	JWTUserIDKey = "jwt_user_id"
)

// JWTMiddlewareConfig configures the admin session middleware
type JWTMiddlewareConfig struct {
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	// CookieName is read before the Authorization header
	CookieName string
	// RequireAdmin answers 403 for valid tokens without the admin role
	RequireAdmin bool
	Logger       *zap.Logger
}

// AdminAuth accepts the session cookie or a bearer token and requires the admin role
func AdminAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	cfg.RequireAdmin = true
	return JWTAuthMiddlewareWithConfig(cfg)
}

// JWTAuthMiddlewareWithConfig validates the session token. Missing, malformed,
// expired or revoked tokens answer 401.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultSessionCookie
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		tokenString := ExtractToken(c, cfg.CookieName)
		if tokenString == "" {
			handleAuthError(c, cfg, nil, "Not authorized, no token")
			return
		}

		claims, err := cfg.JWTService.Validate(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		if cfg.TokenBlacklist != nil && claims.ID != "" {
			revoked, err := cfg.TokenBlacklist.IsRevoked(c.Request.Context(), claims.ID)
			switch {
			case err != nil:
				// fail open: a cache outage must not lock admins out
				cfg.Logger.Error("Failed to check token revocation",
					zap.String("jti", claims.ID),
					zap.Error(err))
			case revoked:
				handleAuthError(c, cfg, auth.ErrTokenRevoked, "Token has been revoked")
				return
			}
		}

		if cfg.RequireAdmin && !claims.IsAdmin() {
			cfg.Logger.Warn("Non-admin session rejected",
				zap.String("user_id", claims.UserID),
				zap.String("path", c.Request.URL.Path))
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access denied. Admin only")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)

		ctx := logger.WithAdminID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		cfg.Logger.Debug("Admin session authenticated",
			zap.String("user_id", claims.UserID),
			zap.String("path", c.Request.URL.Path))

		c.Next()
	}
}

// ExtractToken returns the session token from cookieName or a bearer header
func ExtractToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
}

func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	cfg.Logger.Warn("Admin authentication failed",
		zap.Error(err),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path),
	)

	code := dto.ErrCodeUnauthorized
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		code, message = dto.ErrCodeTokenRevoked, "Token has been revoked"
	case err != nil:
		code, message = dto.ErrCodeTokenInvalid, "Not authorized, token failed"
	}
	abortWithError(c, http.StatusUnauthorized, code, message)
}

// GetJWTClaims retrieves the session claims stored by the middleware
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTUserID retrieves the admin's user ID from context
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}
