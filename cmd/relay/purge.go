package main

import (
	"context"
	"fmt"
	"time"

	"servicedesk-relay/config"
	pgStorage "servicedesk-relay/internal/adapter/storage/postgres"
	"servicedesk-relay/internal/service"
	"servicedesk-relay/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	purgeEventDays    int
	purgeDeliveryDays int

	purgeCmd = &cobra.Command{
		Use:   "purge",
		Short: "Delete published events and delivery log rows past retention",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

			eventDays := purgeEventDays
			if eventDays <= 0 {
				eventDays = cfg.Outbox.EventRetentionDays
			}
			deliveryDays := purgeDeliveryDays
			if deliveryDays <= 0 {
				deliveryDays = cfg.Outbox.DeliveryRetentionDays
			}

			ctx := context.Background()
			pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
			if err != nil {
				return fmt.Errorf("postgres connect: %w", err)
			}
			defer pool.Close()

			outboxRepo := pgStorage.NewOutboxRepo(pool)
			deliveryRepo := pgStorage.NewDeliveryRepo(pool)
			dispatcher := service.NewEventDispatcher(outboxRepo, cfg.Outbox.RetryDelay, log)

			events, err := dispatcher.Purge(ctx, time.Duration(eventDays)*24*time.Hour)
			if err != nil {
				return fmt.Errorf("purging events: %w", err)
			}

			cutoff := time.Now().UTC().AddDate(0, 0, -deliveryDays)
			deliveries, err := deliveryRepo.DeleteAttemptedBefore(ctx, cutoff)
			if err != nil {
				return fmt.Errorf("purging deliveries: %w", err)
			}

			log.Info().
				Int64("events", events).
				Int64("deliveries", deliveries).
				Msg("purge completed")
			return nil
		},
	}
)

func init() {
	purgeCmd.Flags().IntVar(&purgeEventDays, "event-days", 0, "override event retention in days")
	purgeCmd.Flags().IntVar(&purgeDeliveryDays, "delivery-days", 0, "override delivery log retention in days")
}
