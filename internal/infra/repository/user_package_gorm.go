package repository

import (
	"context"
	"time"

	"evmarket/internal/domain/model"
	repo "evmarket/internal/repository"

	"gorm.io/gorm"
)

// 枠消費の再試行回数（他の消費と競合したとき）
const consumeSlotAttempts = 3

type userPackageGormRepository struct {
	db *gorm.DB
}

// DI
func NewUserPackageGormRepository(db *gorm.DB) repo.UserPackageRepository {
	return &userPackageGormRepository{db: db}
}

func (r *userPackageGormRepository) Create(ctx context.Context, up model.UserPackage) (model.UserPackage, error) {
	if err := r.db.WithContext(ctx).Create(&up).Error; err != nil {
		return model.UserPackage{}, translate(err)
	}
	return up, nil
}

func (r *userPackageGormRepository) FindByID(ctx context.Context, id int64) (model.UserPackage, error) {
	var up model.UserPackage
	if err := r.db.WithContext(ctx).First(&up, id).Error; err != nil {
		return model.UserPackage{}, translate(err)
	}
	return up, nil
}

func (r *userPackageGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.UserPackage, error) {
	var items []model.UserPackage
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id desc").Find(&items).Error; err != nil {
		return []model.UserPackage{}, err
	}
	return items, nil
}

func (r *userPackageGormRepository) Activate(ctx context.Context, id int64, purchasedAt time.Time, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.UserPackage{}).
		Where("id = ? AND status = ?", id, model.UserPackageStatusAwaitingPayment).
		Updates(map[string]interface{}{
			"status":          model.UserPackageStatusActive,
			"purchased_at":    purchasedAt,
			"expires_at":      expiresAt,
			"remaining_slots": gorm.Expr("listing_quota"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := r.db.WithContext(ctx).Model(&model.UserPackage{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return repo.ErrNotFound
		}
		return repo.ErrConflict
	}
	return nil
}

func (r *userPackageGormRepository) ConsumeSlot(ctx context.Context, userID int64, t model.PackageType, now time.Time) (bool, error) {
	for i := 0; i < consumeSlotAttempts; i++ {
		var candidates []model.UserPackage
		err := r.db.WithContext(ctx).
			Where("user_id = ? AND type = ? AND status = ?", userID, t, model.UserPackageStatusActive).
			Where("expires_at > ? AND remaining_slots > 0", now).
			Order("expires_at asc").
			Limit(1).
			Find(&candidates).Error
		if err != nil {
			return false, err
		}
		if len(candidates) == 0 {
			return false, nil
		}

		res := r.db.WithContext(ctx).Model(&model.UserPackage{}).
			Where("id = ? AND remaining_slots > 0", candidates[0].ID).
			UpdateColumn("remaining_slots", gorm.Expr("remaining_slots - ?", 1))
		if res.Error != nil {
			return false, res.Error
		}
		if res.RowsAffected == 1 {
			return true, nil
		}
		//他で使い切られた -> 次の候補を探す
	}
	return false, nil
}
