package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appidentity "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// AuthService signs admins in and out
type AuthService interface {
	Login(ctx context.Context, input appidentity.LoginInput) (*appidentity.LoginResult, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, userID uuid.UUID) (*appidentity.UserInfo, error)
}

// AuthHandler handles admin session endpoints
type AuthHandler struct {
	BaseHandler
	authService  AuthService
	cookieConfig config.CookieConfig
	now          func() time.Time
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, cookieConfig config.CookieConfig) *AuthHandler {
	if cookieConfig.Name == "" {
		cookieConfig.Name = middleware.DefaultSessionCookie
	}
	if cookieConfig.Path == "" {
		cookieConfig.Path = "/"
	}
	return &AuthHandler{
		authService:  authService,
		cookieConfig: cookieConfig,
		now:          time.Now,
	}
}

// Login godoc
// @Summary      Admin login
// @Description  Checks the password and sets the httpOnly session cookie. The token is also returned for bearer use.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body appidentity.LoginInput true "Login credentials"
// @Success      200 {object} LoginResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req appidentity.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	maxAge := int(result.ExpiresAt.Sub(h.now()).Seconds())
	h.setSessionCookie(c, result.Token, maxAge)

	h.OK(c, LoginResponse{
		Success:   true,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.Unix(),
		User:      result.User,
	})
}

// Logout godoc
// @Summary      Admin logout
// @Description  Revokes the session token and clears the cookie. Succeeds without a session.
// @Tags         admin
// @Produce      json
// @Success      200 {object} SuccessResponse
// @Router       /admin/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.ExtractToken(c, h.cookieConfig.Name)
	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		h.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, "", -1)
	h.OK(c, SuccessResponse{Success: true, Message: "Logged out successfully"})
}

// Me godoc
// @Summary      Current admin
// @Tags         admin
// @Produce      json
// @Success      200 {object} CurrentUserResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Not authorized")
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, CurrentUserResponse{Success: true, User: *user})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(sameSiteMode(h.cookieConfig.SameSite))
	c.SetCookie(
		h.cookieConfig.Name,
		value,
		maxAge,
		h.cookieConfig.Path,
		h.cookieConfig.Domain,
		h.cookieConfig.Secure,
		true,
	)
}

func sameSiteMode(value string) http.SameSite {
	switch strings.ToLower(value) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
