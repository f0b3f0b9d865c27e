package usecase

import (
	"context"
	"time"

	"evmarket/internal/domain/event"
	"evmarket/internal/domain/lifecycle"
	"evmarket/internal/domain/model"
	repo "evmarket/internal/repository"
)

// 商品に1イベント適用する（Tx内）。rejectionNoteが空でなければ保存する。
func transitionProduct(
	ctx context.Context,
	r repo.TxRepos,
	actorID int64,
	productID int64,
	ev lifecycle.ProductEvent,
	note string,
	now time.Time,
) (model.Product, event.Event, error) {
	p, err := r.Products().FindByID(ctx, productID)
	if err != nil {
		return model.Product{}, event.Event{}, err
	}

	next, err := lifecycle.Product.Next(p.Status, ev)
	if err != nil {
		return model.Product{}, event.Event{}, err
	}

	prev := p.Status
	p.Status = next
	if flag := lifecycle.WarehouseFlagAfter(ev); flag != nil {
		p.InWarehouse = *flag
	}
	if note != "" {
		p.RejectionNote = note
	}
	if err := r.Products().UpdateIfStatus(ctx, p, prev); err != nil {
		return model.Product{}, event.Event{}, err
	}

	action := model.AuditActionUpdateProductStatus
	if ev == lifecycle.ProductRemoveFromStock || ev == lifecycle.ProductInspectionPass {
		action = model.AuditActionUpdateWarehouse
	}
	if err := writeAudit(ctx, r.AuditLogs(), now, actorID, action, model.AuditResourceProduct, p.ID,
		statusChange{Status: string(prev)},
		statusChange{Status: string(next), Event: string(ev), InWarehouse: &p.InWarehouse}, note); err != nil {
		return model.Product{}, event.Event{}, err
	}

	return p, event.Event{
		Type:        event.TypeProductStatusChanged,
		ResourceID:  p.ID,
		From:        string(prev),
		To:          string(next),
		ActorUserID: actorID,
		OccurredAt:  now,
	}, nil
}
