// Command worker consumes audit events from RabbitMQ and writes them to the
// structured log.
package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/iliyamo/inventory-service/internal/config"
	"github.com/iliyamo/inventory-service/internal/events"
	"github.com/iliyamo/inventory-service/internal/logger"
)

func main() {
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	lg, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lg.Info("audit worker started", zap.String("queue", events.AuditQueue))
	if err := events.Consume(ctx, cfg.AMQPURL, lg, events.LogHandler(lg)); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("audit worker stopped", zap.Error(err))
	}
	lg.Info("audit worker exited")
}
