package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/inkhaus/studio-api/internal/model"
	"github.com/inkhaus/studio-api/internal/service/notification"
	"github.com/inkhaus/studio-api/pkg/logger"
	"github.com/inkhaus/studio-api/pkg/metrics"
)

// Repository is the slice of appointment persistence the sweeper needs.
type Repository interface {
	ListUnreminded(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
	MarkReminded(ctx context.Context, id uuid.UUID) error
}

type ReminderConfig struct {
	// LeadWindow is how far ahead of the appointment start the reminder goes
	// out. A 24h window reminds customers the day before.
	LeadWindow    time.Duration
	SweepInterval time.Duration
}

// ReminderSweeper periodically finds active appointments entering the lead
// window that have not been reminded yet, sends the reminder, and marks them.
// Appointments are only marked after a successful send, so a failed email is
// retried on the next sweep.
type ReminderSweeper struct {
	repo       Repository
	dispatcher notification.Dispatcher
	config     ReminderConfig
	logger     *logger.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewReminderSweeper(
	repo Repository,
	dispatcher notification.Dispatcher,
	config ReminderConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *ReminderSweeper {
	if config.LeadWindow <= 0 {
		panic("LeadWindow must be greater than 0")
	}
	if config.SweepInterval <= 0 {
		panic("SweepInterval must be greater than 0")
	}

	return &ReminderSweeper{
		repo:       repo,
		dispatcher: dispatcher,
		config:     config,
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
	}
}

func (s *ReminderSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	s.logger.Info("Starting reminder sweeper")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Shutting down reminder sweeper")
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Error(err, "Failed to sweep reminders")
			}
		}
	}
}

func (s *ReminderSweeper) Sweep(ctx context.Context) error {
	now := s.now()
	appointments, err := s.repo.ListUnreminded(ctx, now, now.Add(s.config.LeadWindow))
	if err != nil {
		return fmt.Errorf("failed to list unreminded appointments: %w", err)
	}

	for _, apt := range appointments {
		if err := s.dispatcher.SendReminder(ctx, apt); err != nil {
			s.metrics.RemindersFailed.Inc()
			s.logger.Error(err, "Failed to send reminder", "appointment_id", apt.ID.String())
			continue
		}
		s.metrics.RemindersSent.Inc()

		if err := s.repo.MarkReminded(ctx, apt.ID); err != nil {
			s.logger.Error(err, "Failed to mark appointment reminded", "appointment_id", apt.ID.String())
		}
	}

	return nil
}
