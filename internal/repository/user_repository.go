package repository

import (
	"context"

	"evmarket/internal/domain/model"
)

type UserListFilter struct {
	Page  int
	Limit int
	Role  string
	Q     string
}

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user model.User) (model.User, error)
	FindByID(ctx context.Context, userID int64) (model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (model.User, error)
	List(ctx context.Context, f UserListFilter) ([]model.User, int64, error)
	// ユーザー情報の更新=>アクティブかどうか・ロールの変更・最後のログイン更新など
	Update(ctx context.Context, user model.User) error
	//トークンのバージョンを＋１して新しい値を返す
	IncrementTokenVersion(ctx context.Context, userID int64) (int, error)
}
