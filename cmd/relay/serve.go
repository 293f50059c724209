package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"servicedesk-relay/config"
	httpHandler "servicedesk-relay/internal/adapter/http/handler"
	pgStorage "servicedesk-relay/internal/adapter/storage/postgres"
	redisStorage "servicedesk-relay/internal/adapter/storage/redis"
	"servicedesk-relay/internal/core/ports"
	"servicedesk-relay/internal/metrics"
	"servicedesk-relay/internal/service"
	"servicedesk-relay/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin API, the outbox poller and the delivery worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
		log.Info().
			Str("mode", cfg.Server.Mode).
			Int("port", cfg.Server.Port).
			Msg("Starting ServiceDesk Relay")

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

		// Repositories
		outboxRepo := pgStorage.NewOutboxRepo(pool)
		endpointRepo := pgStorage.NewEndpointRepo(pool)
		deliveryRepo := pgStorage.NewDeliveryRepo(pool)
		transactor := pgStorage.NewTransactor(pool)

		// Services
		sigSvc := service.NewHMACSignatureService()
		dispatcher := service.NewEventDispatcher(outboxRepo, cfg.Outbox.RetryDelay, log)
		manager := service.NewWebhookManager(endpointRepo, deliveryRepo, sigSvc, &http.Client{}, log)

		workerLock := redisStorage.NewWorkerLock(rdb, "relay:worker:lease", cfg.Worker.LockTTL)
		worker := service.NewDeliveryWorker(
			outboxRepo, endpointRepo, deliveryRepo,
			sigSvc, &http.Client{}, workerLock,
			service.WorkerConfig{
				BatchSize:               cfg.Worker.BatchSize,
				MaxConcurrentDeliveries: cfg.Worker.MaxConcurrentDeliveries,
				EventDelay:              cfg.Worker.EventDelay,
			},
			log,
		)

		metrics.MustRegister(prometheus.DefaultRegisterer)

		router := httpHandler.SetupRouter(httpHandler.RouterDeps{
			Dispatcher:       dispatcher,
			Manager:          manager,
			OutboxRepo:       outboxRepo,
			Transactor:       transactor,
			HealthCheckers:   []ports.HealthChecker{pgStorage.NewHealthCheck(pool), redisStorage.NewHealthCheck(rdb)},
			PendingBatchSize: cfg.Outbox.PendingBatchSize,
			Logger:           log,
		})

		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv := &http.Server{
			Addr:    addr,
			Handler: router,
		}

		var wg sync.WaitGroup

		// Outbox poller: drives PENDING/RETRYING events through handlers.
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(cfg.Worker.PollInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if _, err := dispatcher.ProcessPending(ctx, cfg.Outbox.PendingBatchSize); err != nil {
						log.Error().Err(err).Msg("outbox poll failed")
					}
				}
			}
		}()

		// Webhook delivery worker, leased so one instance runs across replicas.
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := worker.Run(ctx, cfg.Worker.PollInterval); err != nil {
				log.Error().Err(err).Msg("delivery worker exited")
			}
		}()

		go func() {
			log.Info().Str("addr", addr).Msg("HTTP server listening")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("HTTP server failed")
				stop()
			}
		}()

		<-ctx.Done()
		log.Info().Msg("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}

		wg.Wait()
		log.Info().Msg("Server exited")
		return nil
	},
}
