package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/postline/backend/internal/constants"
	apperrors "github.com/postline/backend/internal/errors"
	"github.com/postline/backend/internal/model"
	"github.com/postline/backend/internal/service"
	"github.com/postline/backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserLoader is the slice of the user store the auth gate needs.
type UserLoader interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
}

// AuthMiddleware guards protected routes. Beyond signature and expiry checks
// it consults the user's refresh-token list: an empty list means the user
// logged out everywhere, so an otherwise valid access token is rejected.
type AuthMiddleware struct {
	tokens *service.TokenService
	users  UserLoader
}

func NewAuthMiddleware(tokens *service.TokenService, users UserLoader) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		users:  users,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			abortWithError(c, apperrors.ErrMissingToken)
			return
		}

		claims, err := m.tokens.Verify(token)
		if err != nil {
			var domainErr *apperrors.DomainError
			if !errors.As(err, &domainErr) {
				domainErr = apperrors.WrapError(apperrors.ErrInvalidToken, err)
			}
			abortWithError(c, domainErr)
			return
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			abortWithError(c, apperrors.ErrInvalidToken)
			return
		}

		user, err := m.users.GetByID(c.Request.Context(), uint(userID))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortWithError(c, apperrors.ErrInvalidToken)
				return
			}
			abortWithError(c, apperrors.WrapError(apperrors.ErrInternal, err))
			return
		}

		// A valid access token no longer grants access once every session
		// has been revoked.
		if len(user.RefreshTokens) == 0 {
			logger.GetLogger().Warn("Access token presented by logged-out user",
				zap.Uint("user_id", user.ID),
				zap.String("path", c.Request.URL.Path),
			)
			abortWithError(c, apperrors.ErrLoggedOut)
			return
		}

		c.Set(string(constants.CtxKeyUserID), user.ID)
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(constants.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != constants.BearerScheme || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// CurrentUserID returns the authenticated user id set by RequireAuth.
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(string(constants.CtxKeyUserID))
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

func abortWithError(c *gin.Context, err *apperrors.DomainError) {
	c.AbortWithStatusJSON(apperrors.ToHTTPStatus(err), gin.H{
		"error":   err.Code,
		"message": err.Message,
	})
}
