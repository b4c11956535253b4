package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smallpress/blog-backend/internal/config"
	"github.com/smallpress/blog-backend/internal/service"
)

const refreshCookie = "refresh_token"

// AuthHandler serves registration, login, token rotation, logout, and email
// activation.
type AuthHandler struct {
	Authenticator *service.Authenticator
	Lifecycle     *service.TokenLifecycle
	Users         *service.Users
	Verification  *service.Verification
	Cfg           config.Config
	Logger        *zap.Logger
}

func NewAuthHandler(authenticator *service.Authenticator, lifecycle *service.TokenLifecycle, users *service.Users, verification *service.Verification, cfg config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		Authenticator: authenticator,
		Lifecycle:     lifecycle,
		Users:         users,
		Verification:  verification,
		Cfg:           cfg,
		Logger:        logger,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password1 string `json:"password1"`
		Password2 string `json:"password2"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Username) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Username and email are required."})
		return
	}

	created, err := h.Users.Register(c.Request.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password1: req.Password1,
		Password2: req.Password2,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(created, false))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email         string `json:"email"`
		InputPassword string `json:"input_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.InputPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Email and password are required."})
		return
	}

	userID, err := h.Authenticator.Authenticate(c.Request.Context(), req.Email, req.InputPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	pair, err := h.Lifecycle.CreateAuthTokens(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	raw, err := c.Cookie(refreshCookie)
	if err != nil || raw == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "token_invalid", "error_description": "Refresh token missing."})
		return
	}

	pair, err := h.Lifecycle.RefreshAuthTokens(c.Request.Context(), raw)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken})
}

// Logout revokes the presented refresh token and clears the cookie. The 401
// is deliberate: it tells the client "you are now unauthenticated", it does
// not signal a failure.
func (h *AuthHandler) Logout(c *gin.Context) {
	raw, err := c.Cookie(refreshCookie)
	if err == nil && raw != "" {
		if err := h.Lifecycle.DeleteRefreshToken(c.Request.Context(), raw); err != nil {
			respondError(c, err)
			return
		}
	}

	h.clearRefreshCookie(c)
	c.JSON(http.StatusUnauthorized, nil)
}

func (h *AuthHandler) Activate(c *gin.Context) {
	raw := c.Param("token")
	if err := h.Verification.Verify(c.Request.Context(), raw); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account activated."})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string) {
	c.SetCookie(
		refreshCookie,
		value,
		int(h.Cfg.RefreshTokenTTL.Seconds()),
		"/",
		h.Cfg.CookieDomain,
		h.Cfg.Environment == "production",
		true, // httpOnly
	)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetCookie(refreshCookie, "", -1, "/", h.Cfg.CookieDomain, h.Cfg.Environment == "production", true)
}
