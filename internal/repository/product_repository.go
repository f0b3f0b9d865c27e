package repository

import (
	"context"

	"evmarket/internal/domain/model"
)

// 一覧検索
type ProductListQuery struct {
	Page        int
	Limit       int
	Q           string
	Status      string
	Type        string
	SellerID    *int64
	InWarehouse *bool
	MinPrice    *int64
	MaxPrice    *int64
	Sort        string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	Create(ctx context.Context, p model.Product) (model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)

	//expectedのステータスのときだけ status / in_warehouse / rejection_note を更新。
	UpdateIfStatus(ctx context.Context, p model.Product, expected model.ProductStatus) error
}
