package cancellation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/inkhaus/studio-api/internal/model"
	"github.com/inkhaus/studio-api/pkg/errors"
	"github.com/inkhaus/studio-api/pkg/logger"
	"github.com/inkhaus/studio-api/pkg/metrics"
)

// Repository is the slice of appointment persistence cancellation needs.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, cancelReason *string) error
}

// Notifier dispatches the cancellation notice. Best-effort.
type Notifier interface {
	NotifyBookingCancelled(ctx context.Context, appointment *model.Appointment, refundable bool)
}

// Service applies the cancellation policy and, when permitted, transitions the
// appointment to cancelled. Decide stays pure; the service owns the write.
type Service struct {
	repo     Repository
	notifier Notifier
	logger   *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewService wires the enforcer. metrics may be nil in tests.
func NewService(repo Repository, notifier Notifier, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   log,
		metrics:  m,
		now:      time.Now,
	}
}

// Cancel enforces the lead-time policy for the appointment. A missing
// appointment reports not-found, never a policy refusal.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.CancellationDecision, error) {
	if reason == "" {
		return nil, errors.NewValidation("cancellation reason is required", nil)
	}

	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return &model.CancellationDecision{
				Success: false,
				Message: "appointment not found",
			}, err
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if apt.Status == model.AppointmentStatusCancelled {
		return nil, errors.NewConflict("appointment is already cancelled", nil)
	}
	if apt.Status == model.AppointmentStatusCompleted {
		return nil, errors.NewConflict("cannot cancel a completed appointment", nil)
	}

	decision := Decide(apt.StartTime, s.now())
	if !decision.Success {
		return &decision, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, model.AppointmentStatusCancelled, &reason); err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}

	apt.Status = model.AppointmentStatusCancelled
	apt.CancelReason = &reason
	if s.metrics != nil {
		s.metrics.CancellationsTotal.WithLabelValues(strconv.FormatBool(decision.IsRefundable)).Inc()
	}
	if s.notifier != nil {
		s.notifier.NotifyBookingCancelled(ctx, apt, decision.IsRefundable)
	}

	s.logger.Info("appointment cancelled",
		"appointment_id", id.String(),
		"refundable", decision.IsRefundable)

	return &decision, nil
}
