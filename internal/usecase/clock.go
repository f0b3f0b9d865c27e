package usecase

import (
	"time"

	"github.com/google/uuid"
)

// 時刻の取得（テストで固定する）
type Clock interface {
	Now() time.Time
}

// ID生成（transactionCode、jti）
type IDGenerator interface {
	NewID() string
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }
