package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/startupwebapp/storefront-backend/api/controllers"
	"github.com/startupwebapp/storefront-backend/api/routes"
	"github.com/startupwebapp/storefront-backend/internal/accounts"
	"github.com/startupwebapp/storefront-backend/internal/cart"
	"github.com/startupwebapp/storefront-backend/internal/catalog"
	"github.com/startupwebapp/storefront-backend/internal/checkout"
	"github.com/startupwebapp/storefront-backend/internal/emails"
	"github.com/startupwebapp/storefront-backend/internal/events"
	"github.com/startupwebapp/storefront-backend/internal/orderconfig"
	"github.com/startupwebapp/storefront-backend/internal/orders"
	stripewebhook "github.com/startupwebapp/storefront-backend/internal/webhooks/stripe"
	"github.com/startupwebapp/storefront-backend/pkg/auth/session"
	"github.com/startupwebapp/storefront-backend/pkg/config"
	"github.com/startupwebapp/storefront-backend/pkg/db"
	"github.com/startupwebapp/storefront-backend/pkg/logger"
	"github.com/startupwebapp/storefront-backend/pkg/metrics"
	"github.com/startupwebapp/storefront-backend/pkg/migrate"
	"github.com/startupwebapp/storefront-backend/pkg/outbox"
	"github.com/startupwebapp/storefront-backend/pkg/redis"
	"github.com/startupwebapp/storefront-backend/pkg/smtp"
	"github.com/startupwebapp/storefront-backend/pkg/stripe"
)

// Stripe delivers a given event for up to three days, so remember handled
// event ids slightly longer than that.
const stripeEventTTL = 72 * time.Hour

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	smtpClient, err := smtp.NewClient(cfg.SMTP)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap smtp", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	catalogRepo := catalog.NewRepository(gormDB)
	outboxRepo := outbox.NewRepository(gormDB)
	outboxSvc := outbox.NewService(outboxRepo, logg)

	configService, err := orderconfig.NewService(orderconfig.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create order config service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Repo:      cart.NewRepository(gormDB),
		SKUs:      catalogRepo,
		Discounts: cart.NewDiscountCodeRepository(gormDB),
		Shipping:  cart.NewShippingMethodRepository(gormDB),
		Configs:   configService,
		Tx:        dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	emailService, err := emails.NewService(emails.ServiceParams{
		Repo:        emails.NewRepository(gormDB),
		OutboxRepo:  outboxRepo,
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

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Repo:       checkout.NewRepository(gormDB),
		Carts:      cartService,
		Configs:    configService,
		Outbox:     outboxSvc,
		OutboxRepo: outboxRepo,
		Stripe:     checkout.NewStripeClient(stripeClient),
		Tx:         dbClient,
		Logger:     logg,
		SuccessURL: cfg.Stripe.SuccessURL,
		CancelURL:  cfg.Stripe.CancelURL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	accountsService, err := accounts.NewService(accounts.ServiceParams{
		Repo:       accounts.NewRepository(gormDB),
		Carts:      cartService,
		Mail:       emailService,
		Sessions:   sessionManager,
		Tx:         dbClient,
		Logger:     logg,
		JWT:        cfg.JWT,
		Password:   cfg.Password,
		CodeSecret: cfg.JWT.Secret,
		PublicURL:  cfg.App.PublicURL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create accounts service", err)
		os.Exit(1)
	}

	eventsService, err := events.NewService(events.ServiceParams{
		Repo:    events.NewRepository(gormDB),
		Configs: configService,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create events service", err)
		os.Exit(1)
	}

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, stripeEventTTL, "stripe-webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe webhook guard", err)
		os.Exit(1)
	}
	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		Checkout: checkoutService,
		Guard:    webhookGuard,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe webhook service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			Redis:          redisClient,
			Sessions:       sessionManager,
			HTTPMetrics:    httpMetrics,
			MetricsHandler: metricsHandler,
			ReadyProbes: map[string]controllers.Pinger{
				"database": dbClient,
				"redis":    redisClient,
			},
			Catalog:       catalogService,
			Cart:          cartService,
			Checkout:      checkoutService,
			Orders:        ordersService,
			Accounts:      accountsService,
			Events:        eventsService,
			StripeClient:  stripeClient,
			StripeWebhook: webhookService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
