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

	"github.com/woodkari/woodkari-backend/api/routes"
	"github.com/woodkari/woodkari-backend/internal/account"
	"github.com/woodkari/woodkari-backend/internal/address"
	"github.com/woodkari/woodkari-backend/internal/auth"
	"github.com/woodkari/woodkari-backend/internal/cart"
	"github.com/woodkari/woodkari-backend/internal/catalog"
	"github.com/woodkari/woodkari-backend/internal/checkout"
	"github.com/woodkari/woodkari-backend/internal/media"
	"github.com/woodkari/woodkari-backend/internal/orders"
	"github.com/woodkari/woodkari-backend/internal/users"
	"github.com/woodkari/woodkari-backend/pkg/auth/session"
	"github.com/woodkari/woodkari-backend/pkg/cloudinary"
	"github.com/woodkari/woodkari-backend/pkg/config"
	"github.com/woodkari/woodkari-backend/pkg/db"
	"github.com/woodkari/woodkari-backend/pkg/logger"
	"github.com/woodkari/woodkari-backend/pkg/mailer"
	"github.com/woodkari/woodkari-backend/pkg/metrics"
	"github.com/woodkari/woodkari-backend/pkg/migrate"
	"github.com/woodkari/woodkari-backend/pkg/redis"
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

	usersRepo := users.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	addressRepo := address.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		DB:             dbClient,
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	var sender mailer.Sender
	if smtpMailer, err := mailer.New(cfg.SMTP); err != nil {
		logg.Warn(context.Background(), "smtp not configured, reset emails disabled: "+err.Error())
	} else {
		sender = smtpMailer
	}

	resetService, err := auth.NewResetService(auth.ResetServiceParams{
		Users:          usersRepo,
		Store:          redisClient,
		Mailer:         sender,
		Logger:         logg,
		AppConfig:      cfg.App,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reset service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cloudinaryClient, err := cloudinary.New(cfg.Cloudinary)
	if err != nil {
		logg.Error(context.Background(), "failed to create cloudinary client", err)
		os.Exit(1)
	}

	mediaService, err := media.NewService(cloudinaryClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	adminService, err := catalog.NewAdminService(catalog.AdminServiceParams{
		Repo:   catalogRepo,
		Media:  mediaService,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog admin service", err)
		os.Exit(1)
	}

	pricing, err := checkout.NewPricingConfig(cfg.Checkout)
	if err != nil {
		logg.Error(context.Background(), "failed to parse pricing config", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Repo:     cartRepo,
		Products: catalogRepo,
		Pricing:  pricing,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Cart:     cartRepo,
		Products: catalogRepo,
		Orders:   ordersRepo,
		Pricing:  pricing,
		Metrics:  checkoutMetrics,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	addressService, err := address.NewService(dbClient, addressRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}

	accountService, err := account.NewService(account.ServiceParams{
		DB:             dbClient,
		Users:          usersRepo,
		Session:        sessionManager,
		Logger:         logg,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create account service", err)
		os.Exit(1)
	}

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
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			SessionChecker: sessionManager,
			Metrics:        registry,
			Auth:           authService,
			Reset:          resetService,
			Catalog:        catalogService,
			Admin:          adminService,
			Cart:           cartService,
			Checkout:       checkoutService,
			Orders:         ordersService,
			Addresses:      addressService,
			Account:        accountService,
			Media:          mediaService,
		}),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	errs := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
