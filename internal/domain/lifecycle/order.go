package lifecycle

import "evmarket/internal/domain/model"

type OrderEvent string

const (
	OrderApprove         OrderEvent = "approve"
	OrderReject          OrderEvent = "reject"
	OrderDepositPaid     OrderEvent = "deposit_paid"
	OrderFullyPaid       OrderEvent = "fully_paid"
	OrderDeliver         OrderEvent = "deliver"
	OrderComplete        OrderEvent = "complete"
	OrderCancel          OrderEvent = "cancel"
	OrderDispute         OrderEvent = "dispute"
	OrderResolveComplete OrderEvent = "resolve_complete"
	OrderResolveCancel   OrderEvent = "resolve_cancel"
)

var Order = NewMachine("order", map[OrderEvent]Rule[model.OrderStatus]{
	OrderApprove: {
		From: []model.OrderStatus{model.OrderStatusPendingApproval},
		To:   model.OrderStatusAwaitingPayment,
	},
	OrderReject: {
		From: []model.OrderStatus{model.OrderStatusPendingApproval},
		To:   model.OrderStatusRejected,
	},
	OrderDepositPaid: {
		From: []model.OrderStatus{model.OrderStatusAwaitingPayment},
		To:   model.OrderStatusDepositPaid,
	},
	OrderFullyPaid: {
		From: []model.OrderStatus{model.OrderStatusAwaitingPayment, model.OrderStatusDepositPaid},
		To:   model.OrderStatusPaid,
	},
	OrderDeliver: {
		From: []model.OrderStatus{model.OrderStatusPaid},
		To:   model.OrderStatusDelivered,
	},
	OrderComplete: {
		From: []model.OrderStatus{model.OrderStatusDelivered},
		To:   model.OrderStatusCompleted,
	},
	OrderCancel: {
		From: []model.OrderStatus{
			model.OrderStatusPendingApproval,
			model.OrderStatusAwaitingPayment,
			model.OrderStatusDepositPaid,
		},
		To: model.OrderStatusCancelled,
	},
	OrderDispute: {
		From: []model.OrderStatus{
			model.OrderStatusDepositPaid,
			model.OrderStatusPaid,
			model.OrderStatusDelivered,
		},
		To: model.OrderStatusDisputed,
	},
	OrderResolveComplete: {
		From: []model.OrderStatus{model.OrderStatusDisputed},
		To:   model.OrderStatusCompleted,
	},
	OrderResolveCancel: {
		From: []model.OrderStatus{model.OrderStatusDisputed},
		To:   model.OrderStatusCancelled,
	},
})

// 承認/却下の判断をイベントに変換
func OrderDecision(approved bool) OrderEvent {
	if approved {
		return OrderApprove
	}
	return OrderReject
}
