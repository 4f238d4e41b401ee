package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/emberwick/emberwick-backend/api/routes"
	cartsvc "github.com/emberwick/emberwick-backend/internal/cart"
	"github.com/emberwick/emberwick-backend/internal/catalog"
	checkoutsvc "github.com/emberwick/emberwick-backend/internal/checkout"
	"github.com/emberwick/emberwick-backend/internal/coupons"
	"github.com/emberwick/emberwick-backend/internal/customers"
	"github.com/emberwick/emberwick-backend/internal/dashboard"
	"github.com/emberwick/emberwick-backend/internal/orders"
	"github.com/emberwick/emberwick-backend/pkg/config"
	"github.com/emberwick/emberwick-backend/pkg/db"
	"github.com/emberwick/emberwick-backend/pkg/logger"
	"github.com/emberwick/emberwick-backend/pkg/metrics"
	"github.com/emberwick/emberwick-backend/pkg/migrate"
	pkgredis "github.com/emberwick/emberwick-backend/pkg/redis"
)

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

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	flatShipping, err := cfg.Shipping.FlatRateAmount()
	if err != nil {
		logg.Error(context.Background(), "invalid shipping config", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	couponRepo := coupons.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	customerRepo := customers.NewRepository(dbClient.DB())

	catalogService, err := catalog.NewService(catalogRepo)
	requireService(logg, "catalog service", err)
	catalogAdmin, err := catalog.NewAdminService(catalogRepo)
	requireService(logg, "catalog admin service", err)

	couponValidator, err := coupons.NewValidator(couponRepo)
	requireService(logg, "coupon validator", err)
	couponAdmin, err := coupons.NewAdminService(couponRepo)
	requireService(logg, "coupon admin service", err)

	snapshots := cartsvc.NewRedisSnapshotStore(redisClient, cfg.Cart.SnapshotTTL, logg)
	cartService, err := cartsvc.NewService(snapshots, catalogRepo, couponValidator, flatShipping)
	requireService(logg, "cart service", err)

	checkoutService, err := checkoutsvc.NewService(
		snapshots,
		couponValidator,
		catalogRepo,
		couponRepo,
		customerRepo,
		orderRepo,
		dbClient,
		checkoutsvc.NewFlatRater(flatShipping),
		checkoutMetrics,
		logg,
	)
	requireService(logg, "checkout service", err)

	orderAdmin, err := orders.NewAdminService(orderRepo)
	requireService(logg, "order admin service", err)
	customerAdmin, err := customers.NewAdminService(customerRepo, orderRepo)
	requireService(logg, "customer admin service", err)
	dashboardService, err := dashboard.NewService(dbClient.DB())
	requireService(logg, "dashboard service", err)

	handler := routes.NewRouter(routes.Deps{
		Config:        cfg,
		Logger:        logg,
		DB:            dbClient,
		Redis:         redisClient,
		Registry:      registry,
		HTTPMetrics:   httpMetrics,
		Catalog:       catalogService,
		CatalogAdmin:  catalogAdmin,
		Cart:          cartService,
		Checkout:      checkoutService,
		CouponAdmin:   couponAdmin,
		OrderAdmin:    orderAdmin,
		CustomerAdmin: customerAdmin,
		Dashboard:     dashboardService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-shutdown
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err != nil {
		logg.Error(context.Background(), "failed to create "+name, err)
		os.Exit(1)
	}
}
