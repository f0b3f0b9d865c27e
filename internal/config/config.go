package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あれば最優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	JWTSecret string // JWT署名シークレット（アクセストークン・継続トークン共通）

	GoEnv         string // dev/prod
	PublicBaseURL string // paymentUrlの組み立てに使う
	FEURL         string // フロントURL（CORS、決済後の戻り先）

	PaymentSandbox    bool   // mock-paymentを有効にする
	PaymentGatewayURL string // 本番ゲートウェイ（空ならsandboxのURL）

	RedisAddr string // 空ならメモリ上のストア

	EventsDriver string // none / rabbitmq / kafka
	RabbitURL    string
	KafkaBrokers []string
	EventsTopic  string

	SentryDSN    string
	RateLimitRPS float64 // /api/payment 用
}

// Loadは .env と環境変数から設定を読む。
func Load() (Config, error) {
	//.envはなくてもよい
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("GO_ENV", "dev")
	v.SetDefault("PAYMENT_SANDBOX", false)
	v.SetDefault("EVENTS_DRIVER", "none")
	v.SetDefault("EVENTS_TOPIC", "evmarket.events")
	v.SetDefault("RATE_LIMIT_RPS", 10)

	cfg := Config{
		Port: v.GetString("PORT"),

		DatabaseURL:      v.GetString("DATABASE_URL"),
		PostgresUser:     v.GetString("POSTGRES_USER"),
		PostgresPassword: v.GetString("POSTGRES_PASSWORD"),
		PostgresDB:       v.GetString("POSTGRES_DB"),
		PostgresHost:     v.GetString("POSTGRES_HOST"),
		PostgresPort:     v.GetInt("POSTGRES_PORT"),
		PostgresSSLMode:  v.GetString("POSTGRES_SSLMODE"),

		JWTSecret: v.GetString("JWT_SECRET"),

		GoEnv:         v.GetString("GO_ENV"),
		PublicBaseURL: strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
		FEURL:         strings.TrimRight(v.GetString("FE_URL"), "/"),

		PaymentSandbox:    v.GetBool("PAYMENT_SANDBOX"),
		PaymentGatewayURL: v.GetString("PAYMENT_GATEWAY_URL"),

		RedisAddr: v.GetString("REDIS_ADDR"),

		EventsDriver: strings.ToLower(v.GetString("EVENTS_DRIVER")),
		RabbitURL:    v.GetString("RABBIT_URL"),
		KafkaBrokers: splitList(v.GetString("KAFKA_BROKERS")),
		EventsTopic:  v.GetString("EVENTS_TOPIC"),

		SentryDSN:    v.GetString("SENTRY_DSN"),
		RateLimitRPS: v.GetFloat64("RATE_LIMIT_RPS"),
	}

	//必須チェック
	if cfg.DatabaseURL == "" {
		if cfg.PostgresUser == "" {
			return Config{}, fmt.Errorf("POSTGRES_USER is required")
		}
		if cfg.PostgresPassword == "" {
			return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
		}
		if cfg.PostgresDB == "" {
			return Config{}, fmt.Errorf("POSTGRES_DB is required")
		}
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.PublicBaseURL == "" {
		return Config{}, fmt.Errorf("PUBLIC_BASE_URL is required")
	}
	if cfg.FEURL == "" {
		return Config{}, fmt.Errorf("FE_URL is required")
	}

	switch cfg.EventsDriver {
	case "none":
	case "rabbitmq":
		if cfg.RabbitURL == "" {
			return Config{}, fmt.Errorf("RABBIT_URL is required when EVENTS_DRIVER=rabbitmq")
		}
	case "kafka":
		if len(cfg.KafkaBrokers) == 0 {
			return Config{}, fmt.Errorf("KAFKA_BROKERS is required when EVENTS_DRIVER=kafka")
		}
	default:
		return Config{}, fmt.Errorf("EVENTS_DRIVER must be none, rabbitmq or kafka: %q", cfg.EventsDriver)
	}

	return cfg, nil
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
