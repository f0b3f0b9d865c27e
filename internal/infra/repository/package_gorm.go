package repository

import (
	"context"

	"evmarket/internal/domain/model"
	repo "evmarket/internal/repository"

	"gorm.io/gorm"
)

type packageGormRepository struct {
	db *gorm.DB
}

// DI
func NewPackageGormRepository(db *gorm.DB) repo.PackageRepository {
	return &packageGormRepository{db: db}
}

func (r *packageGormRepository) Create(ctx context.Context, p model.Package) (model.Package, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Package{}, translate(err)
	}
	return p, nil
}

func (r *packageGormRepository) FindByID(ctx context.Context, id int64) (model.Package, error) {
	var p model.Package
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return model.Package{}, translate(err)
	}
	return p, nil
}

// activeOnly=trueなら公開中のものだけ
func (r *packageGormRepository) List(ctx context.Context, activeOnly bool) ([]model.Package, error) {
	q := r.db.WithContext(ctx).Model(&model.Package{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var items []model.Package
	if err := q.Order("type asc").Order("price asc").Find(&items).Error; err != nil {
		return []model.Package{}, err
	}
	return items, nil
}

func (r *packageGormRepository) Update(ctx context.Context, p model.Package) error {
	res := r.db.WithContext(ctx).Model(&model.Package{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":          p.Name,
		"description":   p.Description,
		"type":          p.Type,
		"price":         p.Price,
		"duration_days": p.DurationDays,
		"listing_quota": p.ListingQuota,
		"is_active":     p.IsActive,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 論理削除（購入済みのUserPackageは残る）
func (r *packageGormRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Package{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
