package repository

import (
	"context"
	"time"

	"evmarket/internal/domain/model"
)

type OrderListFilter struct {
	Page    int
	Limit   int
	Status  string
	BuyerID *int64
	From    *time.Time
	To      *time.Time
}

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (model.Order, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)

	//expectedのステータスのときだけ更新（status / deposit / paid / note）。
	//他で変わっていたら ErrConflict。
	UpdateIfStatus(ctx context.Context, order model.Order, expected model.OrderStatus) error
}
