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

type StaffOrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
	pub    event.Publisher
	clock  Clock
}

// DI
func NewStaffOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository, pub event.Publisher, clock Clock) *StaffOrderUsecase {
	return &StaffOrderUsecase{tx: tx, orders: orders, pub: pub, clock: clock}
}

// 注文一覧
func (u *StaffOrderUsecase) List(ctx context.Context, f repo.OrderListFilter) (contract.Page[contract.OrderView], error) {
	if f.Status != "" {
		if _, ok := model.ParseOrderStatus(f.Status); !ok {
			return contract.Page[contract.OrderView]{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return contract.Page[contract.OrderView]{}, NewHTTPError(http.StatusBadRequest, "from must be before to")
	}

	items, total, err := u.orders.List(ctx, f)
	if err != nil {
		return contract.Page[contract.OrderView]{}, errDB
	}
	return pageOf(toOrderViews(items), total, f.Page, f.Limit), nil
}

// ステータスで絞った一覧（/status/{status}）
func (u *StaffOrderUsecase) ListByStatus(ctx context.Context, status string, page, limit int) (contract.Page[contract.OrderView], error) {
	st, ok := model.ParseOrderStatus(strings.TrimSpace(status))
	if !ok {
		return contract.Page[contract.OrderView]{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	return u.List(ctx, repo.OrderListFilter{Page: page, Limit: limit, Status: string(st)})
}

// Decide は承認/却下。却下のときは理由が必須。
func (u *StaffOrderUsecase) Decide(ctx context.Context, actor Actor, orderID int64, in contract.ApprovalRequest) (contract.OrderView, error) {
	note := strings.TrimSpace(in.Note)
	if !in.Approved && note == "" {
		return contract.OrderView{}, NewHTTPError(http.StatusBadRequest, contract.MsgRejectionNoteRequired)
	}
	return u.apply(ctx, actor, orderID, lifecycle.OrderDecision(in.Approved), note)
}

// 配送済みにする
func (u *StaffOrderUsecase) Deliver(ctx context.Context, actor Actor, orderID int64) (contract.OrderView, error) {
	return u.apply(ctx, actor, orderID, lifecycle.OrderDeliver, "")
}

// 取引完了
func (u *StaffOrderUsecase) Complete(ctx context.Context, actor Actor, orderID int64) (contract.OrderView, error) {
	return u.apply(ctx, actor, orderID, lifecycle.OrderComplete, "")
}

type ResolveDisputeInput struct {
	Outcome string `json:"outcome" validate:"required,oneof=complete cancel"`
	Note    string `json:"note" validate:"max=1000"`
}

// ResolveDispute は紛争中の注文を完了 or キャンセルで閉じる
func (u *StaffOrderUsecase) ResolveDispute(ctx context.Context, actor Actor, orderID int64, in ResolveDisputeInput) (contract.OrderView, error) {
	var ev lifecycle.OrderEvent
	switch strings.TrimSpace(in.Outcome) {
	case "complete":
		ev = lifecycle.OrderResolveComplete
	case "cancel":
		ev = lifecycle.OrderResolveCancel
	default:
		return contract.OrderView{}, NewHTTPError(http.StatusBadRequest, "invalid outcome")
	}
	return u.apply(ctx, actor, orderID, ev, strings.TrimSpace(in.Note))
}

func (u *StaffOrderUsecase) apply(ctx context.Context, actor Actor, orderID int64, ev lifecycle.OrderEvent, note string) (contract.OrderView, error) {
	if !actor.valid() {
		return contract.OrderView{}, errUnauthorized
	}
	if !actor.IsStaff() {
		return contract.OrderView{}, errForbidden
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
		updated, changed, err = transitionOrder(ctx, r, actor.UserID, orderID, ev, note, now, nil)
		return err
	})
	if err != nil {
		return contract.OrderView{}, toHTTPError(err, "order not found")
	}

	publishAll(ctx, u.pub, changed)
	return toOrderView(updated), nil
}
