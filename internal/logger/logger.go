package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New はGO_ENVに応じたzapロガーを作り、グローバルにも設定する。
// 戻り値のsyncは終了時に呼ぶ。
func New(goEnv string) (*zap.Logger, func(), error) {
	var cfg zap.Config
	if goEnv == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	undo := zap.ReplaceGlobals(l)

	return l, func() {
		_ = l.Sync()
		undo()
	}, nil
}
