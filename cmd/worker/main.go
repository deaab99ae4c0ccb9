package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/inkhaus/studio-api/config"
	"github.com/inkhaus/studio-api/internal/email"
	"github.com/inkhaus/studio-api/internal/repository"
	"github.com/inkhaus/studio-api/internal/repository/postgres"
	"github.com/inkhaus/studio-api/internal/service/notification"
	internalWorker "github.com/inkhaus/studio-api/internal/worker"
	"github.com/inkhaus/studio-api/pkg/logger"
	"github.com/inkhaus/studio-api/pkg/messaging/redis"
	"github.com/inkhaus/studio-api/pkg/metrics"
	"github.com/inkhaus/studio-api/pkg/worker"
)

// WorkerConfig is read from the environment. The worker runs next to the API
// but owns its own knobs so a deploy can tune draining without touching the
// API config file.
type WorkerConfig struct {
	HealthPort        int           `envconfig:"HEALTH_PORT" default:"8081"`
	OutboxBatchSize   int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	OutboxInterval    time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	OutboxRetries     int           `envconfig:"OUTBOX_RETRY_ATTEMPTS" default:"3"`
	OutboxRetryDelay  time.Duration `envconfig:"OUTBOX_RETRY_DELAY" default:"2s"`
	ReminderEnabled   bool          `envconfig:"REMINDER_ENABLED" default:"true"`
	ReminderLead      time.Duration `envconfig:"REMINDER_LEAD_WINDOW" default:"24h"`
	ReminderInterval  time.Duration `envconfig:"REMINDER_SWEEP_INTERVAL" default:"15m"`
	OutboxRetention   time.Duration `envconfig:"OUTBOX_RETENTION" default:"168h"`
	RetentionInterval time.Duration `envconfig:"OUTBOX_RETENTION_INTERVAL" default:"1h"`
}

func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load configuration")
	}

	var workerCfg WorkerConfig
	if err := envconfig.Process("STUDIO_WORKER", &workerCfg); err != nil {
		log.Fatal(err, "failed to process worker environment")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, log.Zerolog())
	if err != nil {
		log.Fatal(err, "failed to connect to Redis")
	}
	defer broker.Close()

	appointmentRepo := postgres.NewAppointmentRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	emailSvc := email.NewSMTPService(cfg.SMTP)
	dispatcher := notification.NewService(notificationRepo, customerRepo, outboxRepo, emailSvc, log)

	appMetrics := metrics.NewMetrics("studio_worker")

	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     workerCfg.OutboxBatchSize,
		PollInterval:  workerCfg.OutboxInterval,
		RetryAttempts: workerCfg.OutboxRetries,
		RetryDelay:    workerCfg.OutboxRetryDelay,
	}, log, appMetrics)

	startHealthServer(workerCfg.HealthPort, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("shutting down...")
		cancel()
	}()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		processor.Start(ctx)
	}()

	if workerCfg.ReminderEnabled {
		sweeper := internalWorker.NewReminderSweeper(appointmentRepo, dispatcher, internalWorker.ReminderConfig{
			LeadWindow:    workerCfg.ReminderLead,
			SweepInterval: workerCfg.ReminderInterval,
		}, log, appMetrics)

		wg.Add(1)
		go func() {
			defer wg.Done()
			sweeper.Start(ctx)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		pruneProcessedEvents(ctx, outboxRepo, workerCfg, log)
	}()

	wg.Wait()
}

// pruneProcessedEvents deletes processed outbox rows past the retention
// window so the table stays small.
func pruneProcessedEvents(ctx context.Context, repo repository.OutboxRepository, cfg WorkerConfig, log *logger.Logger) {
	ticker := time.NewTicker(cfg.RetentionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := repo.DeleteProcessedBefore(ctx, time.Now().Add(-cfg.OutboxRetention))
			if err != nil {
				log.Error(err, "failed to prune processed events")
				continue
			}
			if deleted > 0 {
				log.Info("pruned processed events", "deleted", deleted)
			}
		}
	}
}

func startHealthServer(port int, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			log.Error(err, "health check server failed")
		}
	}()
}
