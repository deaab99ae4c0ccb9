package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/inkhaus/studio-api/config"
	"github.com/inkhaus/studio-api/internal/email"
	appointmentHandler "github.com/inkhaus/studio-api/internal/handler/appointment"
	artistHandler "github.com/inkhaus/studio-api/internal/handler/artist"
	healthHandler "github.com/inkhaus/studio-api/internal/handler/health"
	pricingHandler "github.com/inkhaus/studio-api/internal/handler/pricing"
	"github.com/inkhaus/studio-api/internal/middleware"
	"github.com/inkhaus/studio-api/internal/pricing"
	"github.com/inkhaus/studio-api/internal/repository"
	"github.com/inkhaus/studio-api/internal/repository/postgres"
	"github.com/inkhaus/studio-api/internal/router"
	"github.com/inkhaus/studio-api/internal/service/availability"
	"github.com/inkhaus/studio-api/internal/service/booking"
	"github.com/inkhaus/studio-api/internal/service/cancellation"
	"github.com/inkhaus/studio-api/internal/service/notification"
	internalWorker "github.com/inkhaus/studio-api/internal/worker"
	"github.com/inkhaus/studio-api/pkg/logger"
	"github.com/inkhaus/studio-api/pkg/messaging/redis"
	"github.com/inkhaus/studio-api/pkg/metrics"
	"github.com/inkhaus/studio-api/pkg/worker"
)

const artistRateCacheTTL = 5 * time.Minute

func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	// Repositories
	appointmentRepo := postgres.NewAppointmentRepository(db)
	artistRepo := repository.NewCachedArtistRepository(postgres.NewArtistRepository(db), artistRateCacheTTL)
	customerRepo := postgres.NewCustomerRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Pricing engine with the studio's pinned tables
	pricingEngine, err := pricing.NewEngine(cfg.Studio, artistRepo)
	if err != nil {
		log.Fatal(err, "failed to build pricing engine")
	}

	appMetrics := metrics.NewMetrics("studio")

	// Services
	emailSvc := email.NewSMTPService(cfg.SMTP)
	dispatcher := notification.NewService(notificationRepo, customerRepo, outboxRepo, emailSvc, log)
	availabilitySvc := availability.NewService(appointmentRepo)
	bookingSvc := booking.NewService(appointmentRepo, availabilitySvc, pricingEngine, dispatcher, log, appMetrics)
	cancellationSvc := cancellation.NewService(appointmentRepo, dispatcher, log, appMetrics)

	// Handlers
	r := router.NewRouter(
		router.Config{
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			CORSConfig:       middleware.DefaultCORSConfig(),
			RequestTimeout:   cfg.Server.WriteTimeout,
			MetricsPrefix:    "studio_api",
		},
		healthHandler.NewHandler(db),
		appointmentHandler.NewHandler(bookingSvc, availabilitySvc, cancellationSvc),
		pricingHandler.NewHandler(pricingEngine, appMetrics),
		artistHandler.NewHandler(artistRepo),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	// Outbox events flow to Redis for downstream consumers. The API still
	// serves bookings when the broker is down; events drain once it returns.
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, log.Zerolog())
	if err != nil {
		log.Error(err, "failed to connect to Redis, outbox processing disabled")
	} else {
		defer broker.Close()
		outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
			BatchSize:     cfg.Outbox.BatchSize,
			PollInterval:  cfg.Outbox.PollInterval,
			RetryAttempts: cfg.Outbox.RetryAttempts,
			RetryDelay:    cfg.Outbox.RetryDelay,
		}, log, appMetrics)
		go outboxProcessor.Start(workerCtx)
	}

	if cfg.Reminder.Enabled {
		sweeper := internalWorker.NewReminderSweeper(appointmentRepo, dispatcher, internalWorker.ReminderConfig{
			LeadWindow:    cfg.Reminder.LeadWindow,
			SweepInterval: cfg.Reminder.SweepInterval,
		}, log, appMetrics)
		go sweeper.Start(workerCtx)
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}

	log.Info("server exited properly")
}
