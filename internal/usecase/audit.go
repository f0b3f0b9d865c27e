package usecase

import (
	"context"
	"encoding/json"
	"time"

	"evmarket/internal/domain/event"
	"evmarket/internal/domain/model"
	repo "evmarket/internal/repository"

	"go.uber.org/zap"
)

// 監査ログのbefore/after
type statusChange struct {
	Status      string `json:"status"`
	Event       string `json:"event,omitempty"`
	InWarehouse *bool  `json:"inWarehouse,omitempty"`
}

func toJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// 監査ログを1件書く（Tx内のrepoを渡す）
func writeAudit(ctx context.Context, logs repo.AuditLogRepository, now time.Time, actor int64,
	action model.AuditAction, resType model.AuditResourceType, resID int64, before, after interface{}, note string) error {
	return logs.Create(ctx, model.AuditLog{
		ActorUserID:  actor,
		Action:       action,
		ResourceType: resType,
		ResourceID:   resID,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
		Note:         note,
		CreatedAt:    now,
	})
}

// コミット後にイベントを流す。失敗してもリクエストは成功扱い（ログだけ残す）。
func publishAll(ctx context.Context, pub event.Publisher, events ...event.Event) {
	if pub == nil {
		return
	}
	for _, e := range events {
		if err := pub.Publish(ctx, e); err != nil {
			zap.L().Warn("publish event failed",
				zap.String("type", e.Type),
				zap.Int64("resource_id", e.ResourceID),
				zap.Error(err),
			)
		}
	}
}
