package repository

import (
	"context"
	"time"
)

// 決済リダイレクト後の継続トークン（jti）を1回だけ消費できるようにする
type ContinuationStore interface {
	Save(ctx context.Context, jti string, ttl time.Duration) error
	//存在すれば削除してtrue。既に使用済み/期限切れならfalse。
	Consume(ctx context.Context, jti string) (bool, error)
}
