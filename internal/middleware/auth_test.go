package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/postline/backend/config"
	"github.com/postline/backend/internal/model"
	"github.com/postline/backend/internal/service"
	"gorm.io/gorm"
)

type stubUserLoader struct {
	users map[uint]*model.User
}

func (s *stubUserLoader) GetByID(_ context.Context, id uint) (*model.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func newGateRouter(t *testing.T, loader *stubUserLoader, tokens *service.TokenService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/protected", NewAuthMiddleware(tokens, loader).RequireAuth(), func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no user in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return router
}

func TestRequireAuth(t *testing.T) {
	tokens := service.NewTokenService(config.JWTConfig{
		Secret:     "test-secret",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	})

	loader := &stubUserLoader{users: map[uint]*model.User{
		1: {Model: gorm.Model{ID: 1}, Username: "alice", RefreshTokens: []string{"active-session"}},
		2: {Model: gorm.Model{ID: 2}, Username: "bob", RefreshTokens: []string{}},
	}}
	router := newGateRouter(t, loader, tokens)

	activeToken, err := tokens.Sign("1", time.Hour)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	loggedOutToken, err := tokens.Sign("2", time.Hour)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	expiredToken, err := tokens.Sign("1", -time.Minute)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	ghostToken, err := tokens.Sign("999", time.Hour)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "No Authorization header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "MISSING_TOKEN",
		},
		{
			name:       "Wrong scheme",
			authHeader: "Basic " + activeToken,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "MISSING_TOKEN",
		},
		{
			name:       "Garbage token",
			authHeader: "Bearer not-a-token",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_TOKEN",
		},
		{
			name:       "Expired token",
			authHeader: "Bearer " + expiredToken,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "TOKEN_EXPIRED",
		},
		{
			name:       "Token for missing user",
			authHeader: "Bearer " + ghostToken,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_TOKEN",
		},
		{
			name:       "Valid token but logged out",
			authHeader: "Bearer " + loggedOutToken,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "LOGGED_OUT",
		},
		{
			name:       "Valid token with active session",
			authHeader: "Bearer " + activeToken,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}

			if tt.wantCode != "" {
				var body map[string]any
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatalf("Invalid response body: %v", err)
				}
				if body["error"] != tt.wantCode {
					t.Errorf("Expected error code %s, got %v", tt.wantCode, body["error"])
				}
			}
		})
	}
}

func TestCurrentUserIDWithoutGate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, ok := CurrentUserID(c); ok {
		t.Error("Expected no user id on an ungated context")
	}
}
