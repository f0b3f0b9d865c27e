package repository

import (
	"context"
	"time"

	"evmarket/internal/domain/model"
)

type PackageRepository interface {
	Create(ctx context.Context, p model.Package) (model.Package, error)
	FindByID(ctx context.Context, id int64) (model.Package, error)
	List(ctx context.Context, activeOnly bool) ([]model.Package, error)
	Update(ctx context.Context, p model.Package) error
	SoftDelete(ctx context.Context, id int64) error
}

type UserPackageRepository interface {
	Create(ctx context.Context, up model.UserPackage) (model.UserPackage, error)
	FindByID(ctx context.Context, id int64) (model.UserPackage, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.UserPackage, error)

	//CHO_THANH_TOAN -> ACTIVE（枠と期限を設定）
	Activate(ctx context.Context, id int64, purchasedAt time.Time, expiresAt time.Time) error

	//有効なパッケージから1枠消費する。期限が近いものから使う。枠がなければfalse。
	ConsumeSlot(ctx context.Context, userID int64, t model.PackageType, now time.Time) (bool, error)
}
