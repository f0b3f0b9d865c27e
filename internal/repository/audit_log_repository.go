package repository

import (
	"context"
	"time"

	"evmarket/internal/domain/model"
)

// 監査ログの検索条件。ResourceType+ResourceIDで注文/商品のステータス履歴になる。
type AuditLogFilter struct {
	ActorUserID  *int64
	Action       *model.AuditAction
	ResourceType *model.AuditResourceType
	ResourceID   *int64
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

// 状態を変える操作は必ず1行残す（業務更新と同じTxで）。
type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	List(ctx context.Context, f AuditLogFilter) ([]model.AuditLog, error)
}
