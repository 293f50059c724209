package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"servicedesk-relay/config"
	pgStorage "servicedesk-relay/internal/adapter/storage/postgres"
	redisStorage "servicedesk-relay/internal/adapter/storage/redis"
	"servicedesk-relay/internal/metrics"
	"servicedesk-relay/internal/service"
	"servicedesk-relay/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run only the webhook delivery worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
		log.Info().Msg("Starting ServiceDesk Relay delivery worker")

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("postgres connect: %w", err)
		}
		defer pool.Close()

		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
		defer func() { _ = rdb.Close() }()

		metrics.MustRegister(prometheus.DefaultRegisterer)

		workerLock := redisStorage.NewWorkerLock(rdb, "relay:worker:lease", cfg.Worker.LockTTL)
		worker := service.NewDeliveryWorker(
			pgStorage.NewOutboxRepo(pool),
			pgStorage.NewEndpointRepo(pool),
			pgStorage.NewDeliveryRepo(pool),
			service.NewHMACSignatureService(),
			&http.Client{},
			workerLock,
			service.WorkerConfig{
				BatchSize:               cfg.Worker.BatchSize,
				MaxConcurrentDeliveries: cfg.Worker.MaxConcurrentDeliveries,
				EventDelay:              cfg.Worker.EventDelay,
			},
			log,
		)

		return worker.Run(ctx, cfg.Worker.PollInterval)
	},
}
