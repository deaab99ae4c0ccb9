package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/inkhaus/studio-api/internal/model"
)

// All repository interfaces in one file
type (
	// AppointmentRepository handles appointment persistence. FindOverlapping
	// restricts itself to slot-blocking statuses (pending, confirmed) and
	// honors the half-open [start, end) interval convention.
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, cancelReason *string) error
		SetDepositPaid(ctx context.Context, id uuid.UUID, paid bool) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		FindOverlapping(ctx context.Context, artistID uuid.UUID, start time.Time, end *time.Time, excludeID *uuid.UUID) ([]*model.Appointment, error)
		ListUnreminded(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
		MarkReminded(ctx context.Context, id uuid.UUID) error
	}

	ArtistRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Artist, error)
		GetRate(ctx context.Context, id uuid.UUID) (*float64, error)
		List(ctx context.Context) ([]*model.Artist, error)
	}

	CustomerRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Customer, error)
		GetByEmail(ctx context.Context, email string) (*model.Customer, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMessage *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		Update(ctx context.Context, notification *model.Notification) error
	}
)
