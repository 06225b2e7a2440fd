package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/calderapos/caldera-backend/api/routes"
	authsvc "github.com/calderapos/caldera-backend/internal/auth"
	"github.com/calderapos/caldera-backend/internal/cogs"
	"github.com/calderapos/caldera-backend/internal/discounts"
	"github.com/calderapos/caldera-backend/internal/inventory"
	"github.com/calderapos/caldera-backend/internal/locations"
	"github.com/calderapos/caldera-backend/internal/orders"
	"github.com/calderapos/caldera-backend/internal/products"
	"github.com/calderapos/caldera-backend/internal/reports"
	"github.com/calderapos/caldera-backend/internal/settings"
	"github.com/calderapos/caldera-backend/internal/tenants"
	"github.com/calderapos/caldera-backend/internal/terminals"
	"github.com/calderapos/caldera-backend/internal/users"
	"github.com/calderapos/caldera-backend/pkg/auth/session"
	"github.com/calderapos/caldera-backend/pkg/config"
	"github.com/calderapos/caldera-backend/pkg/csrf"
	"github.com/calderapos/caldera-backend/pkg/db"
	"github.com/calderapos/caldera-backend/pkg/logger"
	"github.com/calderapos/caldera-backend/pkg/metrics"
	"github.com/calderapos/caldera-backend/pkg/migrate"
	"github.com/calderapos/caldera-backend/pkg/redis"
	"github.com/calderapos/caldera-backend/pkg/square"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
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

	csrfStore, err := csrf.NewStore(redisClient, cfg.CSRF.TTL())
	if err != nil {
		logg.Error(context.Background(), "failed to create csrf store", err)
		os.Exit(1)
	}

	gdb := dbClient.DB()

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       users.NewRepository(gdb),
		TenantRepo:     tenants.NewRepository(gdb),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventory.NewRepository(gdb), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	discountService, err := discounts.NewService(discounts.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create discount service", err)
		os.Exit(1)
	}

	cogsService, err := cogs.NewService(cogs.NewRepository(gdb), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cogs service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(gdb)
	var ordersService orders.Service
	if cfg.Square.AccessToken != "" {
		squareClient, err := square.NewClient(context.Background(), cfg.Square, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create square client", err)
			os.Exit(1)
		}
		ordersService, err = orders.NewService(ordersRepo, squareClient, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create order service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "square access token missing, customer enrichment disabled")
		ordersService, err = orders.NewService(ordersRepo, nil, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create order service", err)
			os.Exit(1)
		}
	}

	settingsService, err := settings.NewService(settings.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	terminalService, err := terminals.NewService(terminals.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create terminal service", err)
		os.Exit(1)
	}

	locationService, err := locations.NewService(locations.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create location service", err)
		os.Exit(1)
	}

	reportsService, err := reports.NewService(reports.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	handler := routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisClient,
		sessionManager,
		csrfStore,
		httpMetrics,
		registry,
		routes.Services{
			Auth:      authService,
			Products:  productService,
			Inventory: inventoryService,
			Discounts: discountService,
			Cogs:      cogsService,
			Orders:    ordersService,
			Settings:  settingsService,
			Terminals: terminalService,
			Locations: locationService,
			Reports:   reportsService,
		},
	)

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
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
