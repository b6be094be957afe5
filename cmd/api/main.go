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

	"github.com/warehouse360/warehouse360-backend/api/routes"
	"github.com/warehouse360/warehouse360-backend/internal/assignments"
	"github.com/warehouse360/warehouse360-backend/internal/auth"
	"github.com/warehouse360/warehouse360-backend/internal/fulfillment"
	"github.com/warehouse360/warehouse360-backend/internal/products"
	internalsession "github.com/warehouse360/warehouse360-backend/internal/session"
	"github.com/warehouse360/warehouse360-backend/internal/stores"
	"github.com/warehouse360/warehouse360-backend/internal/users"
	"github.com/warehouse360/warehouse360-backend/internal/warehouses"
	"github.com/warehouse360/warehouse360-backend/pkg/auth/session"
	"github.com/warehouse360/warehouse360-backend/pkg/config"
	"github.com/warehouse360/warehouse360-backend/pkg/db"
	"github.com/warehouse360/warehouse360-backend/pkg/logger"
	"github.com/warehouse360/warehouse360-backend/pkg/metrics"
	"github.com/warehouse360/warehouse360-backend/pkg/migrate"
	"github.com/warehouse360/warehouse360-backend/pkg/redis"
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

	gdb := dbClient.DB()
	userRepo := users.NewRepository(gdb)
	warehouseRepo := warehouses.NewRepository(gdb)
	storeRepo := stores.NewRepository(gdb)
	productRepo := products.NewRepository(gdb)
	assignmentRepo := assignments.NewRepository(gdb)
	orderRepo := fulfillment.NewRepository(gdb)

	resolver, err := internalsession.NewResolver(assignmentRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create context resolver", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(userRepo, resolver, sessionManager, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	warehouseService, err := warehouses.NewService(warehouseRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create warehouse service", err)
		os.Exit(1)
	}
	storeService, err := stores.NewService(storeRepo, warehouseRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}
	productService, err := products.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}
	userService, err := users.NewService(userRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}
	assignmentService, err := assignments.NewService(assignmentRepo, userRepo, storeRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create assignment service", err)
		os.Exit(1)
	}
	orderService, err := fulfillment.NewService(orderRepo, storeRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	handler := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Redis:          redisClient,
		SessionChecker: sessionManager,
		Users:          userRepo,
		Resolver:       resolver,
		HTTPMetrics:    httpMetrics,

		AuthService:       authService,
		WarehouseService:  warehouseService,
		StoreService:      storeService,
		ProductService:    productService,
		UserService:       userService,
		AssignmentService: assignmentService,
		OrderService:      orderService,
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
		Addr:    addr,
		Handler: handler,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(stopCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
