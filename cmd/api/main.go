package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"evmarket/internal/config"
	"evmarket/internal/domain/event"
	"evmarket/internal/handler"
	"evmarket/internal/infra/cache"
	"evmarket/internal/infra/db"
	"evmarket/internal/infra/events"
	infraRepo "evmarket/internal/infra/repository"
	"evmarket/internal/logger"
	"evmarket/internal/repository"
	"evmarket/internal/server"
	"evmarket/internal/usecase"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, syncLog, err := logger.New(cfg.GoEnv)
	if err != nil {
		return err
	}
	defer syncLog()

	//Sentry（DSNが空なら何もしない）
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, Environment: cfg.GoEnv}); err != nil {
			log.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	txRepo := infraRepo.NewTransactionGormRepository(gormDB)
	packageRepo := infraRepo.NewPackageGormRepository(gormDB)
	userPackageRepo := infraRepo.NewUserPackageGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//継続トークンのストア
	store, closeStore := continuationStore(cfg, log)
	defer closeStore()

	//ドメインイベント
	pub, closePub, err := publisher(cfg, log)
	if err != nil {
		return err
	}
	defer closePub()

	//usecaseに渡す部品
	clock := usecase.SystemClock{}
	idGen := usecase.UUIDGenerator{}
	tokens := usecase.NewContinuationTokens(cfg.JWTSecret, store, idGen, clock)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, usecase.NewJWTIssuer(cfg.JWTSecret), clock)
	adminUC := usecase.NewAdminUserUsecase(userRepo, auditRepo, clock)
	paymentUC := usecase.NewPaymentUsecase(txm, txRepo, tokens, pub, idGen, clock, usecase.PaymentConfig{
		PublicBaseURL: cfg.PublicBaseURL,
		FEURL:         cfg.FEURL,
		Sandbox:       cfg.PaymentSandbox,
		GatewayURL:    cfg.PaymentGatewayURL,
	})
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, productRepo, pub, clock)
	staffOrderUC := usecase.NewStaffOrderUsecase(txm, orderRepo, pub, clock)
	staffProductUC := usecase.NewStaffProductUsecase(txm, productRepo, pub, clock)
	warehouseUC := usecase.NewWarehouseUsecase(txm, productRepo, pub, clock)
	packageUC := usecase.NewPackageUsecase(txm, packageRepo, userPackageRepo, auditRepo, clock)
	listingUC := usecase.NewListingUsecase(txm, productRepo, clock)

	//Handler生成
	authn := handler.NewAuthn(cfg.JWTSecret, userRepo)
	e := server.New(cfg, log,
		handler.NewAuthHandler(authUC, authn),
		handler.NewCatalogHandler(listingUC, packageUC),
		handler.NewOrderHandler(orderUC, authn),
		handler.NewSellerHandler(listingUC, packageUC, authn),
		handler.NewPaymentHandler(paymentUC, authn, server.PaymentRateLimiter(cfg.RateLimitRPS)),
		handler.NewStaffHandler(staffOrderUC, staffProductUC, authn),
		handler.NewManagerHandler(packageUC, warehouseUC, paymentUC, authn),
		handler.NewAdminHandler(adminUC, authn),
	)

	//Server起動
	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("server starting", zap.String("addr", addr), zap.Bool("sandbox", cfg.PaymentSandbox))
	return server.Start(ctx, e, addr)
}

// REDIS_ADDRが空ならメモリ（単一プロセス用）
func continuationStore(cfg config.Config, log *zap.Logger) (repository.ContinuationStore, func()) {
	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR is empty; continuation tokens are kept in memory")
		return cache.NewMemoryContinuationStore(), func() {}
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return cache.NewRedisContinuationStore(rdb), func() { _ = rdb.Close() }
}

func publisher(cfg config.Config, log *zap.Logger) (event.Publisher, func(), error) {
	switch cfg.EventsDriver {
	case "rabbitmq":
		p, err := events.NewRabbitPublisher(cfg.RabbitURL, cfg.EventsTopic)
		if err != nil {
			return nil, nil, err
		}
		return p, func() { _ = p.Close() }, nil
	case "kafka":
		p := events.NewKafkaPublisher(events.NewKafkaWriter(cfg.KafkaBrokers, cfg.EventsTopic))
		return p, func() { _ = p.Close() }, nil
	}
	return events.NewLogPublisher(log), func() {}, nil
}
