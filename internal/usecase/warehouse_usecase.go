package usecase

import (
	"context"
	"net/http"
	"strings"

	"evmarket/internal/contract"
	"evmarket/internal/domain/event"
	"evmarket/internal/domain/lifecycle"
	"evmarket/internal/domain/model"
	repo "evmarket/internal/repository"
)

// 倉庫管理と商品ステータスの直接更新（マネージャー）
type WarehouseUsecase struct {
	tx       repo.TransactionManager
	products repo.ProductRepository
	pub      event.Publisher
	clock    Clock
}

// DI
func NewWarehouseUsecase(tx repo.TransactionManager, products repo.ProductRepository, pub event.Publisher, clock Clock) *WarehouseUsecase {
	return &WarehouseUsecase{tx: tx, products: products, pub: pub, clock: clock}
}

// 倉庫にある商品一覧
func (u *WarehouseUsecase) List(ctx context.Context, page, limit int) (contract.Page[contract.ProductView], error) {
	in := true
	items, total, err := u.products.List(ctx, repo.ProductListQuery{Page: page, Limit: limit, InWarehouse: &in})
	if err != nil {
		return contract.Page[contract.ProductView]{}, errDB
	}
	return pageOf(toProductViews(items), total, page, limit), nil
}

// 倉庫に戻せるステータス
func canStock(s model.ProductStatus) bool {
	switch s {
	case model.ProductStatusApproved, model.ProductStatusOnSale, model.ProductStatusExpired:
		return true
	}
	return false
}

// Add は検査済みの商品を倉庫に入れる（ステータスは変えない）。
func (u *WarehouseUsecase) Add(ctx context.Context, actor Actor, productID int64) (contract.ProductView, error) {
	if !actor.valid() {
		return contract.ProductView{}, errUnauthorized
	}
	if productID <= 0 {
		return contract.ProductView{}, errInvalidID
	}

	now := u.clock.Now()
	var updated model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if !canStock(p.Status) {
			return NewHTTPError(http.StatusConflict, "product cannot be stocked in status "+string(p.Status))
		}
		//既に倉庫にある
		if p.InWarehouse {
			updated = p
			return nil
		}

		p.InWarehouse = true
		if err := r.Products().UpdateIfStatus(ctx, p, p.Status); err != nil {
			return err
		}
		before := false
		if err := writeAudit(ctx, r.AuditLogs(), now, actor.UserID, model.AuditActionUpdateWarehouse, model.AuditResourceProduct, p.ID,
			statusChange{Status: string(p.Status), InWarehouse: &before},
			statusChange{Status: string(p.Status), InWarehouse: &p.InWarehouse}, ""); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return contract.ProductView{}, toHTTPError(err, "product not found")
	}
	return toProductView(updated), nil
}

// Remove は倉庫から出す（REMOVED_FROM_WAREHOUSE）
func (u *WarehouseUsecase) Remove(ctx context.Context, actor Actor, productID int64) (contract.ProductView, error) {
	return u.apply(ctx, actor, productID, lifecycle.ProductRemoveFromStock)
}

type UpdateProductStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus は目的のステータスに対応するイベントで遷移させる。
func (u *WarehouseUsecase) UpdateStatus(ctx context.Context, actor Actor, productID int64, in UpdateProductStatusInput) (contract.ProductView, error) {
	target, ok := model.ParseProductStatus(strings.TrimSpace(in.Status))
	if !ok {
		return contract.ProductView{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	ev, ok := lifecycle.ProductEventTo(target)
	if !ok {
		//審査系のステータスはスタッフの審査APIで
		return contract.ProductView{}, NewHTTPError(http.StatusBadRequest, "status must be set through review")
	}
	return u.apply(ctx, actor, productID, ev)
}

func (u *WarehouseUsecase) apply(ctx context.Context, actor Actor, productID int64, ev lifecycle.ProductEvent) (contract.ProductView, error) {
	if !actor.valid() {
		return contract.ProductView{}, errUnauthorized
	}
	if productID <= 0 {
		return contract.ProductView{}, errInvalidID
	}

	now := u.clock.Now()
	var (
		updated model.Product
		changed event.Event
	)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		updated, changed, err = transitionProduct(ctx, r, actor.UserID, productID, ev, "", now)
		return err
	})
	if err != nil {
		return contract.ProductView{}, toHTTPError(err, "product not found")
	}

	publishAll(ctx, u.pub, changed)
	return toProductView(updated), nil
}
