package repository

import (
	"context"
	"time"

	"evmarket/internal/domain/model"
)

type TransactionListFilter struct {
	Page    int
	Limit   int
	Status  string
	Type    string
	OrderID *int64
}

type TransactionRepository interface {
	Create(ctx context.Context, tx model.Transaction) (model.Transaction, error)
	FindByCode(ctx context.Context, code string) (model.Transaction, error)

	//同じ注文・種別のPENDINGがあれば返す（再利用）
	FindPending(ctx context.Context, orderID int64, t model.TransactionType) (model.Transaction, bool, error)

	//PENDING -> SUCCESS。既にPENDINGでなければ ErrConflict。
	MarkSucceeded(ctx context.Context, code string, paidAt time.Time) error

	//PENDING -> FAILED。古くなった取引を無効にする。既にPENDINGでなければ ErrConflict。
	MarkFailed(ctx context.Context, code string) error

	List(ctx context.Context, f TransactionListFilter) ([]model.Transaction, int64, error)
}
