package event

import (
	"context"
	"time"
)

// イベント種別（ルーティングキー/トピックのキーにも使う）
const (
	TypeOrderStatusChanged   = "order.status_changed"
	TypeProductStatusChanged = "product.status_changed"
	TypePaymentSucceeded     = "payment.succeeded"
	TypePackageActivated     = "package.activated"
)

// コミット後に外部へ流すドメインイベント。
type Event struct {
	Type        string    `json:"type"`
	ResourceID  int64     `json:"resourceId"`
	From        string    `json:"from,omitempty"`
	To          string    `json:"to,omitempty"`
	ActorUserID int64     `json:"actorUserId"`
	Transaction string    `json:"transactionCode,omitempty"`
	Amount      int64     `json:"amount,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
