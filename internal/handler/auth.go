package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postline/backend/internal/dto"
	apperrors "github.com/postline/backend/internal/errors"
	"github.com/postline/backend/internal/middleware"
	"github.com/postline/backend/internal/service"
	"github.com/postline/backend/pkg/logger"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Login verifies credentials and starts a single fresh session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Refresh exchanges the refresh token in the Authorization header for a new
// pair. Replay of an already-consumed token revokes every session and is
// reported as a security breach.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		respondError(c, apperrors.ErrMissingToken)
		return
	}

	response, err := h.authService.Rotate(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, apperrors.ErrSecurityBreach) {
			logger.GetLogger().Warn("Security breach response issued",
				zap.String("client_ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "security_breach",
				"message": "Token reuse detected. All sessions have been invalidated for security.",
			})
			return
		}
		// A token whose subject no longer exists is indistinguishable from
		// a forged one.
		if errors.Is(err, apperrors.ErrUserNotFound) {
			err = apperrors.ErrInvalidToken
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Logout revokes every session for the access token's user.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		respondError(c, apperrors.ErrMissingToken)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			err = apperrors.ErrInvalidToken
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "logged out",
	})
}
