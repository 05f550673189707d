package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/postline/backend/internal/dto"
	apperrors "github.com/postline/backend/internal/errors"
	"github.com/postline/backend/internal/model"
	"gorm.io/gorm"
)

// memoryUserStore is an in-memory UserStore for exercising the session
// engine without a database.
type memoryUserStore struct {
	users  map[uint]*model.User
	nextID uint
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{
		users:  make(map[uint]*model.User),
		nextID: 1,
	}
}

func (s *memoryUserStore) Create(_ context.Context, user *model.User) error {
	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = user
	return nil
}

func (s *memoryUserStore) GetByID(_ context.Context, id uint) (*model.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *memoryUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memoryUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, user := range s.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryUserStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, user := range s.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryUserStore) ReplaceRefreshTokens(_ context.Context, id uint, tokens []string) error {
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.RefreshTokens = tokens
	return nil
}

func (s *memoryUserStore) RotateRefreshToken(_ context.Context, id uint, consumed, replacement string) error {
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	kept := make([]string, 0, len(user.RefreshTokens))
	for _, t := range user.RefreshTokens {
		if t != consumed {
			kept = append(kept, t)
		}
	}
	user.RefreshTokens = append(kept, replacement)
	return nil
}

func (s *memoryUserStore) ClearRefreshTokens(_ context.Context, id uint) error {
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.RefreshTokens = []string{}
	return nil
}

func newTestAuthService() (*AuthService, *memoryUserStore) {
	store := newMemoryUserStore()
	return NewAuthService(store, newTestTokenService("test-secret")), store
}

func registerAndLogin(t *testing.T, svc *AuthService) *dto.LoginResponse {
	t.Helper()
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	login, err := svc.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return login
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, dto.RegisterRequest{
		Email: "alice@example.com", Username: "alice", Password: "password123",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name    string
		req     dto.RegisterRequest
		wantErr error
	}{
		{
			name:    "Duplicate email",
			req:     dto.RegisterRequest{Email: "alice@example.com", Username: "other", Password: "password123"},
			wantErr: apperrors.ErrEmailExists,
		},
		{
			name:    "Duplicate username",
			req:     dto.RegisterRequest{Email: "other@example.com", Username: "alice", Password: "password123"},
			wantErr: apperrors.ErrUsernameExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRegisterStartsLoggedOut(t *testing.T) {
	svc, store := newTestAuthService()

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "alice@example.com", Username: "alice", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if got := len(store.users[resp.ID].RefreshTokens); got != 0 {
		t.Errorf("Expected 0 refresh tokens after register, got %d", got)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()
	registerAndLogin(t, svc)

	_, unknownErr := svc.Login(ctx, "nobody@example.com", "password123")
	_, wrongErr := svc.Login(ctx, "alice@example.com", "wrong-password")

	if !errors.Is(unknownErr, apperrors.ErrInvalidCredentials) {
		t.Errorf("Unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, apperrors.ErrInvalidCredentials) {
		t.Errorf("Wrong password: expected ErrInvalidCredentials, got %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Error("Unknown email and wrong password must produce the same error")
	}
}

func TestLoginReplacesAllSessions(t *testing.T) {
	svc, store := newTestAuthService()
	ctx := context.Background()
	first := registerAndLogin(t, svc)

	second, err := svc.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Second login failed: %v", err)
	}

	tokens := store.users[first.ID].RefreshTokens
	if len(tokens) != 1 {
		t.Fatalf("Expected 1 refresh token after second login, got %d", len(tokens))
	}
	if tokens[0] != second.RefreshToken {
		t.Error("Surviving token must be the most recent login's")
	}

	// The first session's refresh token is now an outsider; presenting it
	// is treated as reuse.
	if _, err := svc.Rotate(ctx, first.RefreshToken); !errors.Is(err, apperrors.ErrSecurityBreach) {
		t.Errorf("Expected ErrSecurityBreach for displaced token, got %v", err)
	}
}

func TestRotateConsumesPresentedToken(t *testing.T) {
	svc, store := newTestAuthService()
	ctx := context.Background()
	login := registerAndLogin(t, svc)

	pair, err := svc.Rotate(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}

	tokens := store.users[login.ID].RefreshTokens
	if len(tokens) != 1 {
		t.Fatalf("Expected 1 refresh token after rotation, got %d", len(tokens))
	}
	if tokens[0] != pair.RefreshToken {
		t.Error("List must hold the replacement token")
	}
	if pair.RefreshToken == login.RefreshToken {
		t.Error("Rotation must mint a new refresh token")
	}
}

func TestRotateReplayRevokesEverySession(t *testing.T) {
	svc, store := newTestAuthService()
	ctx := context.Background()
	login := registerAndLogin(t, svc)

	fresh, err := svc.Rotate(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}

	// Replaying the consumed token trips the breach response.
	if _, err := svc.Rotate(ctx, login.RefreshToken); !errors.Is(err, apperrors.ErrSecurityBreach) {
		t.Fatalf("Expected ErrSecurityBreach on replay, got %v", err)
	}

	if got := len(store.users[login.ID].RefreshTokens); got != 0 {
		t.Errorf("Expected all sessions revoked, %d tokens remain", got)
	}

	// The still-valid successor token died with the rest of the sessions.
	if _, err := svc.Rotate(ctx, fresh.RefreshToken); !errors.Is(err, apperrors.ErrSecurityBreach) {
		t.Errorf("Expected ErrSecurityBreach for revoked successor, got %v", err)
	}
}

func TestRotateRejectsBadTokens(t *testing.T) {
	svc, _ := newTestAuthService()
	tokens := newTestTokenService("test-secret")
	ctx := context.Background()

	expired, err := tokens.Sign("1", -time.Minute)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	unknownUser, err := tokens.Sign("999", time.Hour)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "Garbage token", token: "not-a-token", wantErr: apperrors.ErrInvalidToken},
		{name: "Expired token", token: expired, wantErr: apperrors.ErrTokenExpired},
		{name: "Unknown subject", token: unknownUser, wantErr: apperrors.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Rotate(ctx, tt.token); !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLogoutRevokesEverySession(t *testing.T) {
	svc, store := newTestAuthService()
	ctx := context.Background()
	login := registerAndLogin(t, svc)

	if err := svc.Logout(ctx, login.AccessToken); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if got := len(store.users[login.ID].RefreshTokens); got != 0 {
		t.Errorf("Expected 0 refresh tokens after logout, got %d", got)
	}

	// The unexpired refresh token no longer rotates.
	if _, err := svc.Rotate(ctx, login.RefreshToken); !errors.Is(err, apperrors.ErrSecurityBreach) {
		t.Errorf("Expected ErrSecurityBreach after logout, got %v", err)
	}
}

func TestIssuePairFailsClosedWithoutSecret(t *testing.T) {
	store := newMemoryUserStore()
	svc := NewAuthService(store, newTestTokenService(""))

	if _, err := svc.IssuePair(1); !errors.Is(err, apperrors.ErrServerMisconfigured) {
		t.Errorf("Expected ErrServerMisconfigured, got %v", err)
	}
}
