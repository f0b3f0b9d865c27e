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

type PlaceOrderInput struct {
	ProductID       int64  `json:"productId" validate:"required,gt=0"`
	ShippingAddress string `json:"shippingAddress" validate:"required,max=500"`
	PaymentMethod   string `json:"paymentMethod" validate:"required,max=50"`
	Note            string `json:"note" validate:"max=1000"`
}

type DisputeInput struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// 購入者の注文
type OrderUsecase struct {
	tx       repo.TransactionManager
	orders   repo.OrderRepository
	products repo.ProductRepository
	pub      event.Publisher
	clock    Clock
}

// DI
func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	products repo.ProductRepository,
	pub event.Publisher,
	clock Clock,
) *OrderUsecase {
	return &OrderUsecase{tx: tx, orders: orders, products: products, pub: pub, clock: clock}
}

// Place は注文を作成（CHO_DUYETで開始し、スタッフ承認後に支払い可能になる）。
func (u *OrderUsecase) Place(ctx context.Context, actor Actor, in PlaceOrderInput) (contract.OrderView, error) {
	if !actor.valid() {
		return contract.OrderView{}, errUnauthorized
	}
	if in.ProductID <= 0 {
		return contract.OrderView{}, NewHTTPError(http.StatusBadRequest, "invalid productId")
	}
	address := strings.TrimSpace(in.ShippingAddress)
	method := strings.TrimSpace(in.PaymentMethod)
	if address == "" || method == "" {
		return contract.OrderView{}, NewHTTPError(http.StatusBadRequest, "shippingAddress and paymentMethod are required")
	}

	p, err := u.products.FindByID(ctx, in.ProductID)
	if err != nil {
		return contract.OrderView{}, toHTTPError(err, "product not found")
	}
	if p.Status != model.ProductStatusOnSale {
		return contract.OrderView{}, NewHTTPError(http.StatusConflict, "product is not on sale")
	}
	if p.SellerID == actor.UserID {
		return contract.OrderView{}, NewHTTPError(http.StatusBadRequest, "cannot buy your own product")
	}

	o, err := u.orders.Create(ctx, model.Order{
		BuyerID:         actor.UserID,
		ProductID:       p.ID,
		ProductType:     p.Type,
		TotalAmount:     p.Price,
		ShippingAddress: address,
		PaymentMethod:   method,
		Note:            strings.TrimSpace(in.Note),
		Status:          model.OrderStatusPendingApproval,
	})
	if err != nil {
		return contract.OrderView{}, errDB
	}

	publishAll(ctx, u.pub, event.Event{
		Type:        event.TypeOrderStatusChanged,
		ResourceID:  o.ID,
		To:          string(o.Status),
		ActorUserID: actor.UserID,
		OccurredAt:  u.clock.Now(),
	})
	return toOrderView(o), nil
}

// 自分の注文一覧
func (u *OrderUsecase) Mine(ctx context.Context, actor Actor, page, limit int) (contract.Page[contract.OrderView], error) {
	if !actor.valid() {
		return contract.Page[contract.OrderView]{}, errUnauthorized
	}
	buyer := actor.UserID
	items, total, err := u.orders.List(ctx, repo.OrderListFilter{Page: page, Limit: limit, BuyerID: &buyer})
	if err != nil {
		return contract.Page[contract.OrderView]{}, errDB
	}
	return pageOf(toOrderViews(items), total, page, limit), nil
}

// 注文1件（本人 or スタッフ）
func (u *OrderUsecase) Get(ctx context.Context, actor Actor, orderID int64) (contract.OrderView, error) {
	if !actor.valid() {
		return contract.OrderView{}, errUnauthorized
	}
	if orderID <= 0 {
		return contract.OrderView{}, errInvalidID
	}
	o, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return contract.OrderView{}, toHTTPError(err, "order not found")
	}
	if o.BuyerID != actor.UserID && !actor.IsStaff() {
		return contract.OrderView{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	return toOrderView(o), nil
}

// 購入者によるキャンセル
func (u *OrderUsecase) Cancel(ctx context.Context, actor Actor, orderID int64) (contract.OrderView, error) {
	return u.buyerTransition(ctx, actor, orderID, lifecycle.OrderCancel, "")
}

// 紛争の申し立て（理由必須）
func (u *OrderUsecase) Dispute(ctx context.Context, actor Actor, orderID int64, in DisputeInput) (contract.OrderView, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return contract.OrderView{}, NewHTTPError(http.StatusBadRequest, "reason is required")
	}
	return u.buyerTransition(ctx, actor, orderID, lifecycle.OrderDispute, reason)
}

func (u *OrderUsecase) buyerTransition(ctx context.Context, actor Actor, orderID int64, ev lifecycle.OrderEvent, note string) (contract.OrderView, error) {
	if !actor.valid() {
		return contract.OrderView{}, errUnauthorized
	}
	if orderID <= 0 {
		return contract.OrderView{}, errInvalidID
	}

	now := u.clock.Now()
	var (
		updated model.Order
		changed event.Event
	)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		updated, changed, err = transitionOrder(ctx, r, actor.UserID, orderID, ev, note, now, func(o model.Order) error {
			if o.BuyerID != actor.UserID {
				return NewHTTPError(http.StatusNotFound, "order not found")
			}
			return nil
		})
		return err
	})
	if err != nil {
		return contract.OrderView{}, toHTTPError(err, "order not found")
	}

	publishAll(ctx, u.pub, changed)
	return toOrderView(updated), nil
}
