package repository

import (
	"context"
	"time"

	"evmarket/internal/domain/model"
	repo "evmarket/internal/repository"

	"gorm.io/gorm"
)

type transactionGormRepository struct {
	db *gorm.DB
}

// DI
func NewTransactionGormRepository(db *gorm.DB) repo.TransactionRepository {
	return &transactionGormRepository{db: db}
}

func (r *transactionGormRepository) Create(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return model.Transaction{}, translate(err)
	}
	return t, nil
}

// transactionCodeで1件取得
func (r *transactionGormRepository) FindByCode(ctx context.Context, code string) (model.Transaction, error) {
	var t model.Transaction
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&t).Error; err != nil {
		return model.Transaction{}, translate(err)
	}
	return t, nil
}

func (r *transactionGormRepository) FindPending(ctx context.Context, orderID int64, typ model.TransactionType) (model.Transaction, bool, error) {
	var items []model.Transaction
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND type = ? AND status = ?", orderID, typ, model.TransactionStatusPending).
		Order("id desc").
		Limit(1).
		Find(&items).Error
	if err != nil {
		return model.Transaction{}, false, err
	}
	if len(items) == 0 {
		return model.Transaction{}, false, nil
	}
	return items[0], true, nil
}

// PENDINGのときだけSUCCESSにする（二重確定を防ぐ）
func (r *transactionGormRepository) MarkSucceeded(ctx context.Context, code string, paidAt time.Time) error {
	return r.settlePending(ctx, code, map[string]interface{}{
		"status":       model.TransactionStatusSuccess,
		"payment_date": paidAt,
	})
}

func (r *transactionGormRepository) MarkFailed(ctx context.Context, code string) error {
	return r.settlePending(ctx, code, map[string]interface{}{
		"status": model.TransactionStatusFailed,
	})
}

// PENDINGの行だけ更新する。0件なら存在確認して ErrNotFound / ErrConflict。
func (r *transactionGormRepository) settlePending(ctx context.Context, code string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("code = ? AND status = ?", code, model.TransactionStatusPending).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := r.db.WithContext(ctx).Model(&model.Transaction{}).Where("code = ?", code).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return repo.ErrNotFound
		}
		return repo.ErrConflict
	}
	return nil
}

func (r *transactionGormRepository) List(ctx context.Context, f repo.TransactionListFilter) ([]model.Transaction, int64, error) {
	page, limit := normalizePage(f.Page, f.Limit)

	q := r.db.WithContext(ctx).Model(&model.Transaction{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.OrderID != nil {
		q = q.Where("order_id = ?", *f.OrderID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Transaction{}, 0, err
	}

	var items []model.Transaction
	if err := q.Order("id desc").Limit(limit).Offset((page - 1) * limit).Find(&items).Error; err != nil {
		return []model.Transaction{}, 0, err
	}
	return items, total, nil
}
