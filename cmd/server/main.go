package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/inventory-service/internal/access"
	"github.com/iliyamo/inventory-service/internal/config"
	"github.com/iliyamo/inventory-service/internal/database"
	"github.com/iliyamo/inventory-service/internal/events"
	"github.com/iliyamo/inventory-service/internal/handler"
	"github.com/iliyamo/inventory-service/internal/logger"
	"github.com/iliyamo/inventory-service/internal/middleware"
	"github.com/iliyamo/inventory-service/internal/repository"
	"github.com/iliyamo/inventory-service/internal/router"
	"github.com/iliyamo/inventory-service/internal/security"
	"github.com/iliyamo/inventory-service/internal/service"
	"github.com/iliyamo/inventory-service/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	lg, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	db, err := database.Open(context.Background(), cfg)
	if err != nil {
		lg.Fatal("connect database", zap.Error(err))
	}
	defer db.Close()

	version, err := database.Migrate(db, migrations.FS)
	if err != nil {
		lg.Fatal("run migrations", zap.Error(err))
	}
	lg.Info("schema ready", zap.Uint("version", version))

	rdb := config.NewRedisClient(lg)
	if rdb != nil {
		defer rdb.Close()
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			lg.Warn("rabbitmq unavailable; audit events disabled", zap.Error(err))
		} else {
			defer p.Close()
			publisher = p
		}
	}

	users := repository.NewUserRepo(db)
	items := repository.NewInventoryRepo(db)
	hasher := security.NewPasswordHasher(&cfg.Auth)
	tokens := security.NewTokenService(&cfg.Auth)

	authSvc, err := service.NewAuthService(users, hasher, tokens, publisher, lg)
	if err != nil {
		lg.Fatal("init auth service", zap.Error(err))
	}
	invSvc := service.NewInventoryService(items, publisher, lg)

	e := router.New(lg)
	router.RegisterRoutes(e, router.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Users:     handler.NewUserHandler(authSvc),
		Inventory: handler.NewInventoryHandler(invSvc),
	},
		access.NewGuard(tokens, users),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, lg),
		middleware.NewResponseCache(config.LoadCacheConfig(), rdb, lg),
	)

	addr := ":" + cfg.Port
	go func() {
		lg.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	lg.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		lg.Error("forced shutdown", zap.Error(err))
	}
}
