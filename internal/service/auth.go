package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/postline/backend/internal/dto"
	apperrors "github.com/postline/backend/internal/errors"
	"github.com/postline/backend/internal/model"
	"github.com/postline/backend/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserStore is the credential store consumed by the session engine. The
// refresh-token list is mutated only through the three dedicated methods so
// the store can later make them atomic without changing this engine.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ReplaceRefreshTokens(ctx context.Context, id uint, tokens []string) error
	RotateRefreshToken(ctx context.Context, id uint, consumed, replacement string) error
	ClearRefreshTokens(ctx context.Context, id uint) error
}

// TokenPair is a freshly minted access/refresh pair. Only the refresh token
// is ever persisted, inside the owning user's refresh-token list.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService owns issuing, validating, rotating and revoking token pairs
// against the credential store's refresh-token list.
type AuthService struct {
	users  UserStore
	tokens *TokenService
}

func NewAuthService(users UserStore, tokens *TokenService) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
	}
}

// IssuePair mints two independent tokens for the user. The caller is
// responsible for persisting the refresh token into the user's list.
func (s *AuthService) IssuePair(userID uint) (*TokenPair, error) {
	subject := formatSubject(userID)

	accessToken, err := s.tokens.Sign(subject, s.tokens.AccessTTL())
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.Sign(subject, s.tokens.RefreshTTL())
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Register creates a user with a bcrypt password hash and an empty
// refresh-token list.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if exists {
		return nil, apperrors.ErrEmailExists
	}

	exists, err = s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if exists {
		return nil, apperrors.ErrUsernameExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Email:         req.Email,
		Username:      req.Username,
		Password:      string(hash),
		RefreshTokens: []string{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.LogAuth(formatSubject(user.ID), "register", true,
		zap.String("email", user.Email),
	)

	return &dto.RegisterResponse{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	}, nil
}

// Login verifies credentials and starts a fresh session: the refresh-token
// list is overwritten with the single newly minted token, so earlier
// sessions for this user are invalidated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same failure as a wrong password, no account enumeration.
			logger.LogAuth("", "login", false, zap.String("email", email))
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logger.LogAuth(formatSubject(user.ID), "login", false)
		return nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.IssuePair(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.users.ReplaceRefreshTokens(ctx, user.ID, []string{pair.RefreshToken}); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.LogAuth(formatSubject(user.ID), "login", true)

	return &dto.LoginResponse{
		ID:           user.ID,
		Email:        user.Email,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Rotate exchanges a refresh token for a new pair, consuming the presented
// token. A verified token that is no longer in the user's list is treated
// as reuse of an already-rotated token: every session for that user is
// revoked and the call fails with ErrSecurityBreach.
func (s *AuthService) Rotate(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := parseSubject(claims.Subject)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !containsToken(user.RefreshTokens, refreshToken) {
		// Replay of a consumed token. Fail closed: revoke every session
		// for this user, not just the replayed token's lineage.
		logger.GetLogger().Warn("Refresh token reuse detected, revoking all sessions",
			zap.Uint("user_id", user.ID),
			zap.Int("active_sessions", len(user.RefreshTokens)),
		)
		if err := s.users.ClearRefreshTokens(ctx, user.ID); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		return nil, apperrors.ErrSecurityBreach
	}

	pair, err := s.IssuePair(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.users.RotateRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.LogAuth(formatSubject(user.ID), "refresh", true)

	return &dto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Logout is authorized by an access token and revokes every session for the
// user by clearing the whole refresh-token list.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.tokens.Verify(accessToken)
	if err != nil {
		return err
	}

	userID, err := parseSubject(claims.Subject)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.ClearRefreshTokens(ctx, user.ID); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.LogAuth(formatSubject(user.ID), "logout", true)
	return nil
}

func formatSubject(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

func parseSubject(subject string) (uint, error) {
	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func containsToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if t == token {
			return true
		}
	}
	return false
}
