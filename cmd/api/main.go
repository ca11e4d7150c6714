package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/bdshop/storefront-backend/api/controllers"
	"github.com/bdshop/storefront-backend/api/routes"
	"github.com/bdshop/storefront-backend/internal/admin"
	"github.com/bdshop/storefront-backend/internal/basket"
	"github.com/bdshop/storefront-backend/internal/catalog"
	"github.com/bdshop/storefront-backend/internal/checkout"
	"github.com/bdshop/storefront-backend/internal/orders"
	"github.com/bdshop/storefront-backend/pkg/config"
	"github.com/bdshop/storefront-backend/pkg/db"
	"github.com/bdshop/storefront-backend/pkg/instance"
	"github.com/bdshop/storefront-backend/pkg/logger"
	"github.com/bdshop/storefront-backend/pkg/metrics"
	"github.com/bdshop/storefront-backend/pkg/migrate"
	"github.com/bdshop/storefront-backend/pkg/redis"
	"github.com/bdshop/storefront-backend/pkg/stripe"
)

const shutdownTimeout = 15 * time.Second

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
		Instance:    instance.ID(),
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stripeClient, err := stripe.NewClient(ctx, cfg.Stripe, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	basketRepo, err := newBasketRepository(cfg, dbClient, redisClient)
	if err != nil {
		logg.Error(ctx, "failed to create basket repository", err)
		os.Exit(1)
	}
	resolver, err := basket.NewCatalogResolver(catalogRepo)
	if err != nil {
		logg.Error(ctx, "failed to create product resolver", err)
		os.Exit(1)
	}
	basketService, err := basket.NewService(basketRepo, resolver, logg)
	if err != nil {
		logg.Error(ctx, "failed to create basket service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(
		basketService,
		checkout.NewStripeGateway(stripeClient),
		redisClient,
		ordersService,
		checkoutMetrics,
		logg,
		checkout.Config{
			BaseURL:    cfg.App.NormalizedBaseURL(),
			Currency:   cfg.Stripe.Currency,
			SuccessTTL: cfg.Storage.SuccessTTL,
		},
	)
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}

	adminService, err := admin.NewService(ordersService, catalogService)
	if err != nil {
		logg.Error(ctx, "failed to create admin service", err)
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":            cfg.App.Env,
		"addr":           addr,
		"basket_backend": cfg.Storage.BasketBackend,
		"stripe_env":     stripeClient.Environment(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			map[string]controllers.Pinger{"db": dbClient, "redis": redisClient},
			redisClient,
			registry,
			catalogService,
			basketService,
			checkoutService,
			ordersService,
			adminService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logg.Info(ctx, "shutting down api server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func newBasketRepository(cfg *config.Config, dbClient *db.Client, redisClient *redis.Client) (basket.Repository, error) {
	if cfg.Storage.UsesRedis() {
		return basket.NewRedisRepository(redisClient, cfg.Storage.BasketTTL)
	}
	return basket.NewGormRepository(dbClient.DB()), nil
}
