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

	"github.com/obinnaeze/renthaven-backend/api/routes"
	"github.com/obinnaeze/renthaven-backend/internal/accounttype"
	"github.com/obinnaeze/renthaven-backend/internal/analytics"
	"github.com/obinnaeze/renthaven-backend/internal/auth"
	"github.com/obinnaeze/renthaven-backend/internal/bookings"
	"github.com/obinnaeze/renthaven-backend/internal/favorites"
	"github.com/obinnaeze/renthaven-backend/internal/listings"
	"github.com/obinnaeze/renthaven-backend/internal/onboarding"
	paymentsvc "github.com/obinnaeze/renthaven-backend/internal/payments"
	"github.com/obinnaeze/renthaven-backend/internal/reminder"
	"github.com/obinnaeze/renthaven-backend/internal/support"
	"github.com/obinnaeze/renthaven-backend/internal/users"
	"github.com/obinnaeze/renthaven-backend/internal/verification"
	"github.com/obinnaeze/renthaven-backend/pkg/auth/session"
	"github.com/obinnaeze/renthaven-backend/pkg/config"
	"github.com/obinnaeze/renthaven-backend/pkg/db"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
	"github.com/obinnaeze/renthaven-backend/pkg/metrics"
	"github.com/obinnaeze/renthaven-backend/pkg/migrate"
	pkgpayments "github.com/obinnaeze/renthaven-backend/pkg/payments"
	pkgpubsub "github.com/obinnaeze/renthaven-backend/pkg/pubsub"
	"github.com/obinnaeze/renthaven-backend/pkg/redis"
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

	typeStore, err := accounttype.NewStore(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create account type store", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	gateMetrics := metrics.NewGateMetrics(registry)
	reminderMetrics := metrics.NewReminderMetrics(registry)

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	listingsRepo := listings.NewRepository(gormDB)
	bookingsRepo := bookings.NewRepository(gormDB)

	authService, err := auth.NewService(usersRepo, sessionManager, cfg.JWT, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	onboardingService, err := onboarding.NewService(onboarding.NewRepository(gormDB), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create onboarding service", err)
		os.Exit(1)
	}

	verificationService, err := verification.NewService(verification.NewRepository(gormDB), cfg.Verification, cfg.App.IsDev(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create verification service", err)
		os.Exit(1)
	}

	reminderService, err := reminder.NewService(reminder.NewRedisFlagStore(redisClient), typeStore, cfg.Reminder, reminderMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create reminder service", err)
		os.Exit(1)
	}

	listingsService, err := listings.NewService(listingsRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create listings service", err)
		os.Exit(1)
	}

	bookingsService, err := bookings.NewService(bookingsRepo, listingsRepo, cfg.Bookings, cfg.App.IsDev(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create bookings service", err)
		os.Exit(1)
	}

	favoritesService, err := favorites.NewService(gormDB, listingsRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create favorites service", err)
		os.Exit(1)
	}

	supportService, err := support.NewService(gormDB, cfg.Support, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create support service", err)
		os.Exit(1)
	}

	var paymentsService paymentsvc.Service
	if cfg.Square.AccessToken != "" {
		squareClient, err := pkgpayments.NewClient(cfg.Square, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create square client", err)
			os.Exit(1)
		}
		paymentsService, err = paymentsvc.NewService(squareClient, bookingsRepo, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create payments service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "square access token not set, payment routes disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var analyticsService analytics.Service
	if cfg.GCP.ProjectID != "" {
		pubsubClient, err := pkgpubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create pubsub client", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub client", err)
			}
		}()
		analyticsService, err = analytics.NewService(pubsubClient.InteractionsPublisher(), logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create analytics service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "gcp project not set, interaction tracking disabled")
	}

	scheduler, err := reminder.NewScheduler(reminderService, usersRepo, cfg.Reminder.EvaluateEvery, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create reminder scheduler", err)
		os.Exit(1)
	}
	go scheduler.Run(ctx)

	handler := routes.NewRouter(routes.Deps{
		Config:       cfg,
		Logger:       logg,
		Redis:        redisClient,
		Gatherer:     registry,
		Sessions:     sessionManager,
		TypeStore:    typeStore,
		HTTPMetrics:  httpMetrics,
		GateMetrics:  gateMetrics,
		Auth:         authService,
		Onboarding:   onboardingService,
		Verification: verificationService,
		Reminders:    reminderService,
		Listings:     listingsService,
		Bookings:     bookingsService,
		Favorites:    favoritesService,
		Payments:     paymentsService,
		Support:      supportService,
		Analytics:    analyticsService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	lctx := logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "addr": addr})
	logg.Info(lctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(lctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(lctx, "error during shutdown", err)
		}
		logg.Info(lctx, "api server stopped")
	}
}
