package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/inkhaus/studio-api/internal/model"
)

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	query := `
		INSERT INTO notifications (
			id, appointment_id, recipient, type, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		notification.ID,
		notification.AppointmentID,
		notification.Recipient,
		notification.Type,
		notification.Status,
		notification.CreatedAt,
		notification.UpdatedAt,
	)
	if err != nil {
		return mapError("create notification", err)
	}
	return nil
}

func (r *notificationRepository) Update(ctx context.Context, notification *model.Notification) error {
	query := `
		UPDATE notifications
		SET status = $1, error = $2, updated_at = $3
		WHERE id = $4
	`
	notification.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		notification.Status,
		notification.Error,
		notification.UpdatedAt,
		notification.ID,
	)
	if err != nil {
		return mapError("update notification", err)
	}
	return nil
}
