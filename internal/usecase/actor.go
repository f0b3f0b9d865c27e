package usecase

import "evmarket/internal/domain/model"

// Actor はリクエストしたユーザー（middlewareがcontextに入れた値）。
type Actor struct {
	UserID int64
	Role   model.Role
}

// スタッフ以上（STAFF/MANAGER/ADMIN）
func (a Actor) IsStaff() bool {
	switch a.Role {
	case model.RoleStaff, model.RoleManager, model.RoleAdmin:
		return true
	}
	return false
}

func (a Actor) valid() bool {
	return a.UserID > 0 && a.Role != ""
}
