package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/startupwebapp/storefront-backend/internal/emails"
	"github.com/startupwebapp/storefront-backend/pkg/config"
	"github.com/startupwebapp/storefront-backend/pkg/db"
	"github.com/startupwebapp/storefront-backend/pkg/logger"
	"github.com/startupwebapp/storefront-backend/pkg/metrics"
	"github.com/startupwebapp/storefront-backend/pkg/migrate"
	"github.com/startupwebapp/storefront-backend/pkg/outbox"
	"github.com/startupwebapp/storefront-backend/pkg/smtp"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "email-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "email-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	smtpClient, err := smtp.NewClient(cfg.SMTP)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap smtp", err)
		os.Exit(1)
	}

	emailService, err := emails.NewService(emails.ServiceParams{
		Repo:        emails.NewRepository(dbClient.DB()),
		OutboxRepo:  outbox.NewRepository(dbClient.DB()),
		Sender:      smtpClient,
		Logger:      logg,
		PublicURL:   cfg.App.PublicURL,
		BatchSize:   cfg.Outbox.BatchSize,
		MaxAttempts: cfg.Outbox.MaxAttempts,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create email service", err)
		os.Exit(1)
	}

	jobMetrics := metrics.NewJobMetrics(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "starting email worker")

	if err := run(ctx, cfg, logg, emailService, jobMetrics); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "email worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "email worker shutting down gracefully")
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, svc emails.Service, jobMetrics *metrics.JobMetrics) error {
	interval := time.Duration(cfg.Outbox.PollIntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			sent, err := svc.DeliverPending(ctx)
			jobMetrics.ObserveDuration("email_outbox", time.Since(start))
			if err != nil {
				jobMetrics.IncFailure("email_outbox")
				logg.Error(ctx, "outbox delivery pass failed", err)
				continue
			}
			jobMetrics.IncSuccess("email_outbox")
			if sent > 0 {
				logg.Info(logg.WithFields(ctx, map[string]any{"sent": sent}), "delivered outbox emails")
			}
		}
	}
}
