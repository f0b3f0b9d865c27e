package usecase

import (
	"context"
	"net/http"
	"strings"

	"evmarket/internal/contract"
	"evmarket/internal/domain/model"
	repo "evmarket/internal/repository"
)

type UpdateRoleInput struct {
	Role string `json:"role" validate:"required,oneof=MEMBER STAFF MANAGER ADMIN"`
}

type UpdateActiveInput struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type ForceLogoutOutput struct {
	UserID          int64 `json:"userId"`
	NewTokenVersion int   `json:"newTokenVersion"`
}

// ユーザー管理と監査ログ（ADMIN）
type AdminUserUsecase struct {
	users     repo.UserRepository
	auditRepo repo.AuditLogRepository
	clock     Clock
}

// DI
func NewAdminUserUsecase(users repo.UserRepository, auditRepo repo.AuditLogRepository, clock Clock) *AdminUserUsecase {
	return &AdminUserUsecase{users: users, auditRepo: auditRepo, clock: clock}
}

type userChange struct {
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

func (u *AdminUserUsecase) List(ctx context.Context, f repo.UserListFilter) (contract.Page[model.User], error) {
	if f.Role != "" {
		if _, ok := model.ParseRole(f.Role); !ok {
			return contract.Page[model.User]{}, NewHTTPError(http.StatusBadRequest, "invalid role")
		}
	}
	items, total, err := u.users.List(ctx, f)
	if err != nil {
		return contract.Page[model.User]{}, errDB
	}
	return pageOf(items, total, f.Page, f.Limit), nil
}

func (u *AdminUserUsecase) UpdateRole(ctx context.Context, actor Actor, userID int64, in UpdateRoleInput) (model.User, error) {
	role, ok := model.ParseRole(strings.TrimSpace(in.Role))
	if !ok {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid role")
	}
	//自分の権限は外せない
	if userID == actor.UserID && role != model.RoleAdmin {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "cannot change your own role")
	}
	return u.update(ctx, actor, userID, func(user *model.User) { user.Role = role })
}

func (u *AdminUserUsecase) UpdateActive(ctx context.Context, actor Actor, userID int64, in UpdateActiveInput) (model.User, error) {
	if in.IsActive == nil {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "isActive is required")
	}
	if userID == actor.UserID && !*in.IsActive {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "cannot deactivate yourself")
	}
	active := *in.IsActive
	return u.update(ctx, actor, userID, func(user *model.User) { user.IsActive = active })
}

func (u *AdminUserUsecase) update(ctx context.Context, actor Actor, userID int64, mutate func(*model.User)) (model.User, error) {
	if !actor.valid() {
		return model.User{}, errUnauthorized
	}
	if userID <= 0 {
		return model.User{}, errInvalidID
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return model.User{}, toHTTPError(err, "user not found")
	}
	before := userChange{Role: string(user.Role), IsActive: user.IsActive}

	mutate(&user)
	if err := u.users.Update(ctx, user); err != nil {
		return model.User{}, toHTTPError(err, "user not found")
	}

	//権限・有効状態が変わったら既存トークンを無効化
	after := userChange{Role: string(user.Role), IsActive: user.IsActive}
	if before != after {
		tv, err := u.users.IncrementTokenVersion(ctx, userID)
		if err != nil {
			return model.User{}, toHTTPError(err, "user not found")
		}
		user.TokenVersion = tv
	}

	if err := writeAudit(ctx, u.auditRepo, u.clock.Now(), actor.UserID, model.AuditActionUpdateUser, model.AuditResourceUser, userID,
		before, after, ""); err != nil {
		return model.User{}, errDB
	}
	return user, nil
}

// ForceLogout はtoken_versionを+1して既存のアクセストークンを全て無効にする。
func (u *AdminUserUsecase) ForceLogout(ctx context.Context, actor Actor, userID int64) (ForceLogoutOutput, error) {
	if !actor.valid() {
		return ForceLogoutOutput{}, errUnauthorized
	}
	if userID <= 0 {
		return ForceLogoutOutput{}, errInvalidID
	}
	tv, err := u.users.IncrementTokenVersion(ctx, userID)
	if err != nil {
		return ForceLogoutOutput{}, toHTTPError(err, "user not found")
	}
	if err := writeAudit(ctx, u.auditRepo, u.clock.Now(), actor.UserID, model.AuditActionUpdateUser, model.AuditResourceUser, userID,
		map[string]int{"tokenVersion": tv - 1}, map[string]int{"tokenVersion": tv}, "force logout"); err != nil {
		return ForceLogoutOutput{}, errDB
	}
	return ForceLogoutOutput{UserID: userID, NewTokenVersion: tv}, nil
}

// 監査ログ一覧
func (u *AdminUserUsecase) AuditLogs(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedFrom.After(*f.CreatedTo) {
		return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "from must be before to")
	}
	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return []model.AuditLog{}, errDB
	}
	return logs, nil
}
