package handler

import (
	"evmarket/internal/domain/model"
	"evmarket/internal/middleware"
	"evmarket/internal/repository"

	"github.com/labstack/echo/v4"
)

// 認証チェーン（JWT + token_version一致 + ロール）
type Authn struct {
	secret string
	users  repository.UserRepository
}

// DI
func NewAuthn(secret string, users repository.UserRepository) Authn {
	return Authn{secret: secret, users: users}
}

// rolesが空ならログインしていれば誰でもOK。
func (a Authn) Require(roles ...model.Role) []echo.MiddlewareFunc {
	mws := []echo.MiddlewareFunc{
		middleware.AuthJWT(a.secret),
		middleware.TokenVersionGuard(a.users),
	}
	if len(roles) > 0 {
		mws = append(mws, middleware.RoleGuard(roles...))
	}
	return mws
}

var (
	staffRoles   = []model.Role{model.RoleStaff, model.RoleManager, model.RoleAdmin}
	managerRoles = []model.Role{model.RoleManager, model.RoleAdmin}
	adminRoles   = []model.Role{model.RoleAdmin}
)
