package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"evmarket/internal/domain/model"
	"evmarket/internal/middleware"
	"evmarket/internal/repository"
	"evmarket/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const secret = "test-secret"

type mwErrorResponse struct {
	Error string `json:"error"`
}

type mwOKResponse struct {
	UserID       int64  `json:"user_id"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
}

type userRepoMock struct {
	mock.Mock
}

func (m *userRepoMock) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *userRepoMock) FindByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *userRepoMock) List(ctx context.Context, f repository.UserListFilter) ([]model.User, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *userRepoMock) Update(ctx context.Context, user model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userRepoMock) IncrementTokenVersion(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

var _ repository.UserRepository = (*userRepoMock)(nil)

func issue(t *testing.T, id int64, role model.Role, tv int) string {
	t.Helper()
	raw, _, err := usecase.NewJWTIssuer(secret).Issue(model.User{ID: id, Role: role, TokenVersion: tv}, time.Now())
	require.NoError(t, err)
	return raw
}

func runRequest(e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var r mwErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&r))
	return r.Error
}

func okHandler(c echo.Context) error {
	id, _ := c.Get(middleware.CtxUserIDKey).(int64)
	role, _ := c.Get(middleware.CtxUserRoleKey).(model.Role)
	tv, _ := c.Get(middleware.CtxTokenVersionKey).(int)
	return c.JSON(http.StatusOK, mwOKResponse{UserID: id, Role: string(role), TokenVersion: tv})
}

// =====================
// AuthJWT
// =====================

func TestAuthJWT_Unauthorized(t *testing.T) {
	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, usecase.AccessClaims{
		Role: "MEMBER",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	wrongAlg, err := hs512.SignedString([]byte(secret))
	require.NoError(t, err)

	wrongSecret, _, err := usecase.NewJWTIssuer("other").Issue(model.User{ID: 1, Role: model.RoleMember}, time.Now())
	require.NoError(t, err)

	expired, _, err := usecase.NewJWTIssuer(secret).Issue(model.User{ID: 1, Role: model.RoleMember}, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"bad scheme", "Token abc.def.ghi"},
		{"empty token", "Bearer  "},
		{"wrong secret", "Bearer " + wrongSecret},
		{"wrong alg", "Bearer " + wrongAlg},
		{"expired", "Bearer " + expired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/protected", okHandler, middleware.AuthJWT(secret))

			rec := runRequest(e, tc.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "unauthorized", decodeError(t, rec))
		})
	}
}

func TestAuthJWT_SetsContext(t *testing.T) {
	e := echo.New()
	e.GET("/protected", okHandler, middleware.AuthJWT(secret))

	rec := runRequest(e, "Bearer "+issue(t, 123, model.RoleStaff, 7))
	require.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(123), body.UserID)
	assert.Equal(t, "STAFF", body.Role)
	assert.Equal(t, 7, body.TokenVersion)
}

func TestActorFrom(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Equal(t, usecase.Actor{}, middleware.ActorFrom(c))

	c.Set(middleware.CtxUserIDKey, int64(5))
	c.Set(middleware.CtxUserRoleKey, model.RoleManager)
	assert.Equal(t, usecase.Actor{UserID: 5, Role: model.RoleManager}, middleware.ActorFrom(c))
}

// =====================
// TokenVersionGuard
// =====================

func TestTokenVersionGuard_MissingContext(t *testing.T) {
	e := echo.New()
	users := new(userRepoMock)
	e.GET("/protected", okHandler, middleware.TokenVersionGuard(users))

	rec := runRequest(e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestTokenVersionGuard(t *testing.T) {
	cases := []struct {
		name       string
		user       model.User
		findErr    error
		wantStatus int
		wantRole   string
	}{
		{
			name:       "version matches",
			user:       model.User{ID: 1, Role: model.RoleMember, TokenVersion: 5, IsActive: true},
			wantStatus: http.StatusOK,
			wantRole:   "MEMBER",
		},
		{
			name:       "role from db wins",
			user:       model.User{ID: 1, Role: model.RoleManager, TokenVersion: 5, IsActive: true},
			wantStatus: http.StatusOK,
			wantRole:   "MANAGER",
		},
		{
			name:       "version mismatch",
			user:       model.User{ID: 1, Role: model.RoleMember, TokenVersion: 6, IsActive: true},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "inactive",
			user:       model.User{ID: 1, Role: model.RoleMember, TokenVersion: 5, IsActive: false},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "deleted user",
			findErr:    repository.ErrNotFound,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			users := new(userRepoMock)
			users.On("FindByID", mock.Anything, int64(1)).Return(tc.user, tc.findErr).Once()

			e.GET("/protected", okHandler, middleware.AuthJWT(secret), middleware.TokenVersionGuard(users))

			rec := runRequest(e, "Bearer "+issue(t, 1, model.RoleMember, 5))
			require.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusOK {
				var body mwOKResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, tc.wantRole, body.Role)
			}
			users.AssertExpectations(t)
		})
	}
}

// =====================
// RoleGuard
// =====================

func TestRoleGuard(t *testing.T) {
	cases := []struct {
		name       string
		role       model.Role
		wantStatus int
	}{
		{"staff allowed", model.RoleStaff, http.StatusOK},
		{"admin allowed", model.RoleAdmin, http.StatusOK},
		{"member forbidden", model.RoleMember, http.StatusForbidden},
		{"no role", "", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			setRole := func(next echo.HandlerFunc) echo.HandlerFunc {
				return func(c echo.Context) error {
					if tc.role != "" {
						c.Set(middleware.CtxUserRoleKey, tc.role)
					}
					return next(c)
				}
			}
			e.GET("/protected", okHandler, setRole, middleware.RoleGuard(model.RoleStaff, model.RoleManager, model.RoleAdmin))

			rec := runRequest(e, "")
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

// =====================
// RequestLogger
// =====================

func TestRequestLogger_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	e.Use(middleware.RequestLogger(zap.New(core)))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/bad", func(c echo.Context) error { return c.NoContent(http.StatusBadRequest) })

	for _, p := range []string{"/ok", "/bad"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ok", entries[0].ContextMap()["uri"])
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(http.StatusBadRequest), entries[1].ContextMap()["status"])
}
