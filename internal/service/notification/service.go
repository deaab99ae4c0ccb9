package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/inkhaus/studio-api/internal/email"
	"github.com/inkhaus/studio-api/internal/model"
	"github.com/inkhaus/studio-api/internal/repository"
	"github.com/inkhaus/studio-api/pkg/logger"
)

// Dispatcher signals booking lifecycle events to customers and downstream
// consumers. All methods are fire-and-forget: a booking never fails because an
// email or event publish did. Reminder sending does return its error so the
// sweep only marks appointments it actually reminded.
type Dispatcher interface {
	NotifyBookingCreated(ctx context.Context, appointment *model.Appointment)
	NotifyBookingConfirmed(ctx context.Context, appointment *model.Appointment)
	NotifyBookingCancelled(ctx context.Context, appointment *model.Appointment, refundable bool)
	SendReminder(ctx context.Context, appointment *model.Appointment) error
}

type service struct {
	notifications repository.NotificationRepository
	customers     repository.CustomerRepository
	outbox        repository.OutboxRepository
	emailSvc      email.Service
	logger        *logger.Logger
}

func NewService(
	notifications repository.NotificationRepository,
	customers repository.CustomerRepository,
	outbox repository.OutboxRepository,
	emailSvc email.Service,
	log *logger.Logger,
) Dispatcher {
	return &service{
		notifications: notifications,
		customers:     customers,
		outbox:        outbox,
		emailSvc:      emailSvc,
		logger:        log,
	}
}

func (s *service) NotifyBookingCreated(ctx context.Context, apt *model.Appointment) {
	s.enqueueEvent(ctx, model.EventBookingCreated, apt)
	s.deliver(ctx, apt, model.NotificationBookingCreated, func(to string) error {
		return s.emailSvc.SendBookingConfirmation(ctx, to, apt)
	})
}

func (s *service) NotifyBookingConfirmed(ctx context.Context, apt *model.Appointment) {
	s.enqueueEvent(ctx, model.EventBookingConfirmed, apt)
	s.deliver(ctx, apt, model.NotificationBookingConfirmed, func(to string) error {
		return s.emailSvc.SendBookingConfirmation(ctx, to, apt)
	})
}

func (s *service) NotifyBookingCancelled(ctx context.Context, apt *model.Appointment, refundable bool) {
	s.enqueueEvent(ctx, model.EventBookingCancelled, apt)
	s.deliver(ctx, apt, model.NotificationBookingCancelled, func(to string) error {
		return s.emailSvc.SendCancellation(ctx, to, apt, refundable)
	})
}

func (s *service) SendReminder(ctx context.Context, apt *model.Appointment) error {
	customer, err := s.customers.Get(ctx, apt.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to resolve reminder recipient: %w", err)
	}
	if err := s.emailSvc.SendReminder(ctx, customer.Email, apt); err != nil {
		return err
	}
	s.record(ctx, apt.ID, customer.Email, model.NotificationBookingReminder, nil)
	return nil
}

// deliver resolves the recipient, records the notification, and sends the
// email. Failures are logged at warn and swallowed.
func (s *service) deliver(ctx context.Context, apt *model.Appointment, kind model.NotificationType, send func(to string) error) {
	customer, err := s.customers.Get(ctx, apt.CustomerID)
	if err != nil {
		s.logger.Warn("failed to resolve notification recipient",
			"appointment_id", apt.ID.String(),
			"customer_id", apt.CustomerID.String(),
			"error", err.Error())
		return
	}

	if err := send(customer.Email); err != nil {
		s.logger.Warn("failed to send notification email",
			"appointment_id", apt.ID.String(),
			"type", string(kind),
			"error", err.Error())
		s.record(ctx, apt.ID, customer.Email, kind, err)
		return
	}

	s.record(ctx, apt.ID, customer.Email, kind, nil)
}

func (s *service) record(ctx context.Context, appointmentID uuid.UUID, recipient string, kind model.NotificationType, sendErr error) {
	notification := &model.Notification{
		ID:            uuid.New(),
		AppointmentID: appointmentID,
		Recipient:     recipient,
		Type:          kind,
		Status:        model.NotificationStatusSent,
	}
	if sendErr != nil {
		msg := sendErr.Error()
		notification.Status = model.NotificationStatusFailed
		notification.Error = &msg
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		s.logger.Warn("failed to record notification",
			"appointment_id", appointmentID.String(),
			"error", err.Error())
	}
}

// enqueueEvent writes the booking event to the outbox for the worker to
// publish. Downstream consumers (calendar sync, analytics) read the broker.
func (s *service) enqueueEvent(ctx context.Context, eventType string, apt *model.Appointment) {
	payload, err := json.Marshal(apt)
	if err != nil {
		s.logger.Warn("failed to marshal booking event", "error", err.Error())
		return
	}

	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Warn("failed to enqueue booking event",
			"event_type", eventType,
			"error", err.Error())
	}
}
