package usecase

import (
	"context"
	"time"

	"evmarket/internal/domain/event"
	"evmarket/internal/domain/lifecycle"
	"evmarket/internal/domain/model"
	repo "evmarket/internal/repository"
)

// 注文に1イベント適用する（Tx内）。監査ログも書く。
// check は遷移前の注文に対する追加チェック（所有者など）。
func transitionOrder(
	ctx context.Context,
	r repo.TxRepos,
	actorID int64,
	orderID int64,
	ev lifecycle.OrderEvent,
	note string,
	now time.Time,
	check func(model.Order) error,
) (model.Order, event.Event, error) {
	o, err := r.Orders().FindByID(ctx, orderID)
	if err != nil {
		return model.Order{}, event.Event{}, err
	}
	if check != nil {
		if err := check(o); err != nil {
			return model.Order{}, event.Event{}, err
		}
	}

	next, err := lifecycle.Order.Next(o.Status, ev)
	if err != nil {
		return model.Order{}, event.Event{}, err
	}

	prev := o.Status
	o.Status = next
	if err := r.Orders().UpdateIfStatus(ctx, o, prev); err != nil {
		return model.Order{}, event.Event{}, err
	}

	if err := writeAudit(ctx, r.AuditLogs(), now, actorID, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, o.ID,
		statusChange{Status: string(prev)},
		statusChange{Status: string(next), Event: string(ev)}, note); err != nil {
		return model.Order{}, event.Event{}, err
	}

	return o, event.Event{
		Type:        event.TypeOrderStatusChanged,
		ResourceID:  o.ID,
		From:        string(prev),
		To:          string(next),
		ActorUserID: actorID,
		OccurredAt:  now,
	}, nil
}
