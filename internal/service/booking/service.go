package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/inkhaus/studio-api/internal/model"
	"github.com/inkhaus/studio-api/internal/pricing"
	"github.com/inkhaus/studio-api/internal/repository"
	"github.com/inkhaus/studio-api/internal/service/availability"
	"github.com/inkhaus/studio-api/internal/service/notification"
	"github.com/inkhaus/studio-api/pkg/errors"
	"github.com/inkhaus/studio-api/pkg/logger"
	"github.com/inkhaus/studio-api/pkg/metrics"
)

// Service orchestrates a booking request: validate, check availability, price,
// persist, notify. The notify step is best-effort; everything before the
// insert is side-effect free, so a failed request leaves no partial state.
type Service struct {
	repo     repository.AppointmentRepository
	checker  *availability.Service
	pricer   *pricing.Engine
	notifier notification.Dispatcher
	logger   *logger.Logger
	metrics  *metrics.Metrics
	validate *validator.Validate
	now      func() time.Time
}

// NewService wires the orchestrator. metrics may be nil in tests.
func NewService(
	repo repository.AppointmentRepository,
	checker *availability.Service,
	pricer *pricing.Engine,
	notifier notification.Dispatcher,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:     repo,
		checker:  checker,
		pricer:   pricer,
		notifier: notifier,
		logger:   log,
		metrics:  m,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Schedule books a session. The in-process availability check produces a
// conflict error with the competing appointments; the database exclusion
// constraint remains the authoritative guard, so a lost race still surfaces as
// a conflict rather than a double booking.
func (s *Service) Schedule(ctx context.Context, req *model.BookingRequest) (*model.Appointment, error) {
	parsed, err := s.parseRequest(req)
	if err != nil {
		return nil, err
	}

	result, err := s.checker.Check(ctx, parsed.artistID, parsed.start, &parsed.end, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if !result.IsAvailable {
		if s.metrics != nil {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, errors.NewConflict("requested slot conflicts with existing appointments", result.Conflicts)
	}

	quote, err := s.pricer.Calculate(ctx, pricing.QuoteInput{
		Size:             model.SizeCategory(req.Size),
		Placement:        model.Placement(req.Placement),
		Complexity:       req.Complexity,
		ArtistID:         &parsed.artistID,
		CustomHourlyRate: req.CustomHourlyRate,
	})
	if err != nil {
		return nil, err
	}

	apt := &model.Appointment{
		ID:            uuid.New(),
		ArtistID:      parsed.artistID,
		CustomerID:    parsed.customerID,
		StartTime:     parsed.start,
		EndTime:       &parsed.end,
		Status:        model.AppointmentStatusPending,
		Title:         req.Title,
		Description:   req.Description,
		DepositAmount: &quote.DepositAmount,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		if s.metrics != nil && errors.IsConflict(err) {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}

	s.notifier.NotifyBookingCreated(ctx, apt)

	s.logger.Info("appointment scheduled",
		"appointment_id", apt.ID.String(),
		"artist_id", apt.ArtistID.String(),
		"total_price", quote.TotalPrice,
		"deposit_amount", quote.DepositAmount)

	return apt, nil
}

// Reschedule moves an appointment to a new window, excluding the appointment
// itself from the conflict check.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, req *model.RescheduleRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !apt.IsActive() {
		return nil, errors.NewConflict(fmt.Sprintf("cannot reschedule a %s appointment", apt.Status), nil)
	}

	start, err := parseTimestamp(req.StartDate, "startDate")
	if err != nil {
		return nil, err
	}

	var end time.Time
	if req.EndDate != "" {
		end, err = parseTimestamp(req.EndDate, "endDate")
		if err != nil {
			return nil, err
		}
	} else if apt.EndTime != nil {
		// Preserve the original duration when only a new start is given.
		end = start.Add(apt.EndTime.Sub(apt.StartTime))
	} else {
		end = start
	}
	if !start.Before(end) {
		return nil, errors.NewValidation("start time must precede end time", nil)
	}

	result, err := s.checker.Check(ctx, apt.ArtistID, start, &end, &apt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if !result.IsAvailable {
		return nil, errors.NewConflict("requested slot conflicts with existing appointments", result.Conflicts)
	}

	apt.StartTime = start
	apt.EndTime = &end
	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to reschedule appointment: %w", err)
	}

	return apt, nil
}

// MarkDepositPaid handles the payment processor's success report: records the
// deposit and promotes a pending booking to confirmed.
func (s *Service) MarkDepositPaid(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if apt.Status == model.AppointmentStatusCancelled {
		return nil, errors.NewConflict("cannot record a deposit on a cancelled appointment", nil)
	}

	if err := s.repo.SetDepositPaid(ctx, id, true); err != nil {
		return nil, fmt.Errorf("failed to record deposit: %w", err)
	}
	apt.DepositPaid = true

	if apt.Status == model.AppointmentStatusPending {
		if err := s.repo.UpdateStatus(ctx, id, model.AppointmentStatusConfirmed, nil); err != nil {
			return nil, fmt.Errorf("failed to confirm appointment: %w", err)
		}
		apt.Status = model.AppointmentStatusConfirmed
		if s.metrics != nil {
			s.metrics.BookingsConfirmed.Inc()
		}
		s.notifier.NotifyBookingConfirmed(ctx, apt)
	}

	return apt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

type parsedRequest struct {
	artistID   uuid.UUID
	customerID uuid.UUID
	start      time.Time
	end        time.Time
}

func (s *Service) parseRequest(req *model.BookingRequest) (*parsedRequest, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, errors.NewValidation("invalid booking request", err)
	}

	artistID, err := uuid.Parse(req.ArtistID)
	if err != nil {
		return nil, errors.NewValidation("invalid artist ID", err)
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, errors.NewValidation("invalid customer ID", err)
	}

	start, err := parseTimestamp(req.StartDate, "startDate")
	if err != nil {
		return nil, err
	}
	if start.Before(s.now()) {
		return nil, errors.NewValidation("appointment cannot be scheduled in the past", nil)
	}

	var end time.Time
	if req.EndDate != "" {
		end, err = parseTimestamp(req.EndDate, "endDate")
		if err != nil {
			return nil, err
		}
	} else {
		hours, err := s.pricer.EstimateDurationHours(model.SizeCategory(req.Size), req.Complexity)
		if err != nil {
			return nil, err
		}
		end = start.Add(time.Duration(hours * float64(time.Hour)))
	}
	if !start.Before(end) {
		return nil, errors.NewValidation("start time must precede end time", nil)
	}

	return &parsedRequest{
		artistID:   artistID,
		customerID: customerID,
		start:      start,
		end:        end,
	}, nil
}

func parseTimestamp(value, field string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.NewValidation(fmt.Sprintf("%s must be an ISO-8601 timestamp", field), err)
	}
	return ts, nil
}
