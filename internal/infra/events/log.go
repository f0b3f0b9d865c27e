package events

import (
	"context"

	"evmarket/internal/domain/event"

	"go.uber.org/zap"
)

// EVENTS_DRIVER=none のときはログに出すだけ
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, e event.Event) error {
	p.log.Info("domain event",
		zap.String("type", e.Type),
		zap.Int64("resource_id", e.ResourceID),
		zap.String("from", e.From),
		zap.String("to", e.To),
		zap.Int64("actor", e.ActorUserID),
	)
	return nil
}
