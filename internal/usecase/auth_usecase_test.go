package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"evmarket/internal/domain/model"
	repo "evmarket/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthRegister(t *testing.T) {
	users := &UserRepoMock{}
	uc := NewAuthUsecase(users, NewJWTIssuer("secret"), &fixedClock{now: time.Now()})
	ctx := context.Background()

	users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "buyer@example.com" && u.Role == model.RoleMember && u.IsActive &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
	})).Return(model.User{ID: 1, Email: "buyer@example.com", Role: model.RoleMember, IsActive: true}, nil).Once()

	u, err := uc.Register(ctx, RegisterInput{Email: " Buyer@Example.com ", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	users.On("Create", mock.Anything, mock.Anything).Return(model.User{}, repo.ErrDuplicate).Once()
	_, err = uc.Register(ctx, RegisterInput{Email: "buyer@example.com", Password: "password123"})
	requireHTTPStatus(t, err, http.StatusConflict)

	_, err = uc.Register(ctx, RegisterInput{Email: "buyer@example.com", Password: "short"})
	requireHTTPStatus(t, err, http.StatusBadRequest)

	users.AssertExpectations(t)
}

func TestAuthLogin(t *testing.T) {
	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	users := &UserRepoMock{}
	uc := NewAuthUsecase(users, NewJWTIssuer("secret"), &fixedClock{now: now})
	ctx := context.Background()

	active := model.User{ID: 5, Email: "staff@example.com", PasswordHash: hashed(t, "password123"), Role: model.RoleStaff, TokenVersion: 3, IsActive: true}
	inactive := model.User{ID: 6, Email: "off@example.com", PasswordHash: hashed(t, "password123"), Role: model.RoleMember, IsActive: false}

	users.On("FindByEmail", mock.Anything, "staff@example.com").Return(active, nil)
	users.On("FindByEmail", mock.Anything, "off@example.com").Return(inactive, nil)
	users.On("FindByEmail", mock.Anything, "nobody@example.com").Return(model.User{}, repo.ErrNotFound)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.ID == 5 && u.LastLoginAt != nil && u.LastLoginAt.Equal(now)
	})).Return(nil)

	out, err := uc.Login(ctx, LoginInput{Email: "staff@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, int(AccessTokenTTL.Seconds()), out.Token.ExpiresIn)
	assert.Equal(t, 3, out.Token.TokenVersion)

	assert.NotEmpty(t, out.Token.AccessToken)

	_, err = uc.Login(ctx, LoginInput{Email: "staff@example.com", Password: "wrong-password"})
	requireHTTPStatus(t, err, http.StatusUnauthorized)
	_, err = uc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "password123"})
	requireHTTPStatus(t, err, http.StatusUnauthorized)
	_, err = uc.Login(ctx, LoginInput{Email: "off@example.com", Password: "password123"})
	requireHTTPStatus(t, err, http.StatusForbidden)
}

func TestParseAccessToken(t *testing.T) {
	issuer := NewJWTIssuer("secret")
	user := model.User{ID: 9, Role: model.RoleAdmin, TokenVersion: 1}

	token, _, err := issuer.Issue(user, time.Now())
	require.NoError(t, err)

	id, role, tv, err := ParseAccessToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
	assert.Equal(t, model.RoleAdmin, role)
	assert.Equal(t, 1, tv)

	_, _, _, err = ParseAccessToken("other-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := issuer.Issue(user, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, _, _, err = ParseAccessToken("secret", expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAdminUser_ForceLogoutAndRole(t *testing.T) {
	e := newEnv(t)
	uc := NewAdminUserUsecase(e.users, e.audit, e.clock)
	admin := Actor{UserID: 1, Role: model.RoleAdmin}
	ctx := context.Background()

	target, err := e.users.Create(ctx, model.User{Email: "member@example.com", PasswordHash: "x", Role: model.RoleMember, IsActive: true})
	require.NoError(t, err)

	out, err := uc.ForceLogout(ctx, admin, target.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, out.NewTokenVersion)

	u, err := uc.UpdateRole(ctx, admin, target.ID, UpdateRoleInput{Role: "STAFF"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleStaff, u.Role)
	assert.Equal(t, 2, u.TokenVersion)

	_, err = uc.UpdateRole(ctx, admin, target.ID, UpdateRoleInput{Role: "ROOT"})
	requireHTTPStatus(t, err, http.StatusBadRequest)

	off := false
	u, err = uc.UpdateActive(ctx, admin, target.ID, UpdateActiveInput{IsActive: &off})
	require.NoError(t, err)
	assert.False(t, u.IsActive)

	_, err = uc.UpdateActive(ctx, admin, admin.UserID, UpdateActiveInput{IsActive: &off})
	requireHTTPStatus(t, err, http.StatusBadRequest)

	_, err = uc.ForceLogout(ctx, admin, 999)
	requireHTTPStatus(t, err, http.StatusNotFound)

	action := model.AuditActionUpdateUser
	logs, err := uc.AuditLogs(ctx, repo.AuditLogFilter{Action: &action})
	require.NoError(t, err)
	assert.Len(t, logs, 3)
}
