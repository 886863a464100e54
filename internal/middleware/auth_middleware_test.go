package middleware

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobnest/jobnest-backend/internal/app/model"
	"github.com/jobnest/jobnest-backend/internal/app/service"
	"github.com/jobnest/jobnest-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testJWTSecret  = "test-jwt-secret-for-middleware"
	testCookieName = "session"
)

type fakeIdentities struct {
	users map[uint]*model.User
	err   error
}

func (f *fakeIdentities) GetUserByID(_ context.Context, id uint) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return user, nil
}

func setupMiddlewareTest(identities IdentityLookup) (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router, NewAuthMiddleware(testJWTSecret, testCookieName, identities)
}

func generateTestToken(t *testing.T, userID uint, role model.UserRole, expiry time.Duration) string {
	t.Helper()
	token, _, err := util.GenerateSessionToken(userID, "test@example.com", string(role), testJWTSecret, expiry)
	require.NoError(t, err)
	return token
}

func registerEcho(router *gin.Engine, handlers ...gin.HandlerFunc) {
	handlers = append(handlers, func(c *gin.Context) {
		userID, _ := GetUserID(c)
		role, _ := GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	router.GET("/test", handlers...)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(t *testing.T, req *http.Request)
		wantStatus int
		wantCode   string
	}{
		{
			name: "Bearer token",
			setup: func(t *testing.T, req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+generateTestToken(t, 1, model.RoleEmployer, time.Minute))
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "Session cookie",
			setup: func(t *testing.T, req *http.Request) {
				req.AddCookie(&http.Cookie{Name: testCookieName, Value: generateTestToken(t, 1, model.RoleEmployer, time.Minute)})
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "No session",
			setup:      func(t *testing.T, req *http.Request) {},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "AUTH_UNAUTHORIZED",
		},
		{
			name: "Malformed header",
			setup: func(t *testing.T, req *http.Request) {
				req.Header.Set("Authorization", "Token abc")
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "AUTH_TOKEN_INVALID",
		},
		{
			name: "Garbage token",
			setup: func(t *testing.T, req *http.Request) {
				req.AddCookie(&http.Cookie{Name: testCookieName, Value: "not-a-jwt"})
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "AUTH_TOKEN_INVALID",
		},
		{
			name: "Expired token",
			setup: func(t *testing.T, req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+generateTestToken(t, 1, model.RoleEmployer, -time.Minute))
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "AUTH_TOKEN_EXPIRED",
		},
		{
			name: "Unknown role claim",
			setup: func(t *testing.T, req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+generateTestToken(t, 1, "root", time.Minute))
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "AUTH_UNAUTHORIZED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, auth := setupMiddlewareTest(nil)
			registerEcho(router, auth.Authenticate())

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			tt.setup(t, req)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w))
			}
		})
	}
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       model.UserRole
		wantStatus int
	}{
		{name: "Admin allowed", role: model.RoleAdmin, wantStatus: http.StatusOK},
		{name: "Superadmin allowed", role: model.RoleSuperadmin, wantStatus: http.StatusOK},
		{name: "Employer forbidden", role: model.RoleEmployer, wantStatus: http.StatusForbidden},
		{name: "Job seeker forbidden", role: model.RoleJobSeeker, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, auth := setupMiddlewareTest(nil)
			registerEcho(router, auth.Authenticate(), auth.RequireRole(model.RoleAdmin, model.RoleSuperadmin))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", "Bearer "+generateTestToken(t, 7, tt.role, time.Minute))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthMiddleware_RequireRoleWithoutSession(t *testing.T) {
	router, auth := setupMiddlewareTest(nil)
	registerEcho(router, auth.RequireRole(model.RoleAdmin))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_Revalidation(t *testing.T) {
	identities := &fakeIdentities{users: map[uint]*model.User{
		1: {ID: 1, Role: model.RoleJobSeeker, Active: true}, // demoted from admin
		2: {ID: 2, Role: model.RoleAdmin, Active: false},
		3: {ID: 3, Role: model.RoleAdmin, Active: true}, // promoted from employer
	}}

	tests := []struct {
		name        string
		userID      uint
		tokenRole   model.UserRole
		identityErr error
		wantStatus  int
	}{
		{name: "Stale admin role is demoted", userID: 1, tokenRole: model.RoleAdmin, wantStatus: http.StatusForbidden},
		{name: "Deactivated user", userID: 2, tokenRole: model.RoleAdmin, wantStatus: http.StatusUnauthorized},
		{name: "Promotion applies immediately", userID: 3, tokenRole: model.RoleEmployer, wantStatus: http.StatusOK},
		{name: "Deleted user", userID: 4, tokenRole: model.RoleAdmin, wantStatus: http.StatusUnauthorized},
		{
			name: "Store unavailable", userID: 3, tokenRole: model.RoleAdmin,
			identityErr: stderrors.Join(service.ErrStorageUnavailable, stderrors.New("connection refused")),
			wantStatus:  http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identities.err = tt.identityErr
			router, auth := setupMiddlewareTest(identities)
			registerEcho(router, auth.Authenticate(), auth.RequireRole(model.RoleAdmin, model.RoleSuperadmin))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", "Bearer "+generateTestToken(t, tt.userID, tt.tokenRole, time.Minute))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
