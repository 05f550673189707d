package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/postline/backend/config"
	apperrors "github.com/postline/backend/internal/errors"
)

// TokenClaims is the payload carried by both access and refresh tokens.
// Nonce guarantees two tokens minted in the same instant for the same
// subject are distinct strings, which the single-use rotation invariant
// depends on.
type TokenClaims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies compact signed tokens. It is stateless;
// the secret and lifetimes are fixed at construction. An empty secret makes
// every operation fail closed with ErrServerMisconfigured.
type TokenService struct {
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(cfg config.JWTConfig) *TokenService {
	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	refreshTTL := cfg.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenService{
		secret:     cfg.Secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// Sign mints an HS256 token for the given subject id with the given
// lifetime.
func (s *TokenService) Sign(subjectID string, ttl time.Duration) (string, error) {
	if s.secret == "" {
		return "", apperrors.ErrServerMisconfigured
	}

	now := time.Now()
	claims := &TokenClaims{
		Nonce: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return signed, nil
}

// Verify parses and validates a token, distinguishing expiry from any other
// structural or signature failure so callers can decide whether rotation is
// worth attempting.
func (s *TokenService) Verify(tokenString string) (*TokenClaims, error) {
	if s.secret == "" {
		return nil, apperrors.ErrServerMisconfigured
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.WrapError(apperrors.ErrTokenExpired, err)
		}
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
