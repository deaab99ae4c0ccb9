package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/inkhaus/studio-api/internal/model"
	"github.com/inkhaus/studio-api/pkg/errors"
)

// All appointment repository methods here

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, artist_id, customer_id, start_time, end_time,
			status, title, description, deposit_amount, deposit_paid,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.ArtistID,
		appointment.CustomerID,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
		appointment.Title,
		appointment.Description,
		appointment.DepositAmount,
		appointment.DepositPaid,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return mapError("create appointment", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, artist_id, customer_id, start_time, end_time,
			   status, title, description, deposit_amount, deposit_paid,
			   cancel_reason, reminder_sent, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFound("appointment", err)
		}
		return nil, mapError("get appointment", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET start_time = $1, end_time = $2, status = $3, title = $4,
			description = $5, deposit_amount = $6, deposit_paid = $7, updated_at = $8
		WHERE id = $9
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
		appointment.Title,
		appointment.Description,
		appointment.DepositAmount,
		appointment.DepositPaid,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return mapError("update appointment", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NewNotFound("appointment", nil)
	}

	return nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, cancelReason *string) error {
	query := `
		UPDATE appointments
		SET status = $1, cancel_reason = COALESCE($2, cancel_reason), updated_at = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, status, cancelReason, time.Now(), id)
	if err != nil {
		return mapError("update appointment status", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NewNotFound("appointment", nil)
	}

	return nil
}

func (r *appointmentRepository) SetDepositPaid(ctx context.Context, id uuid.UUID, paid bool) error {
	query := `
		UPDATE appointments
		SET deposit_paid = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, paid, time.Now(), id)
	if err != nil {
		return mapError("set deposit paid", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NewNotFound("appointment", nil)
	}

	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT id, artist_id, customer_id, start_time, end_time,
			   status, title, description, deposit_amount, deposit_paid,
			   cancel_reason, reminder_sent, created_at, updated_at
		FROM appointments
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters.ArtistID != uuid.Nil {
		query += fmt.Sprintf(" AND artist_id = $%d", argCount)
		args = append(args, filters.ArtistID)
		argCount++
	}

	if filters.CustomerID != uuid.Nil {
		query += fmt.Sprintf(" AND customer_id = $%d", argCount)
		args = append(args, filters.CustomerID)
		argCount++
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	if !filters.StartDate.IsZero() {
		query += fmt.Sprintf(" AND start_time >= $%d", argCount)
		args = append(args, filters.StartDate)
		argCount++
	}

	if !filters.EndDate.IsZero() {
		query += fmt.Sprintf(" AND start_time < $%d", argCount)
		args = append(args, filters.EndDate)
		argCount++
	}

	query += " ORDER BY start_time ASC"

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, mapError("list appointments", err)
	}
	return appointments, nil
}

// FindOverlapping returns the artist's slot-blocking appointments intersecting
// [start, end) in start-ascending order. A nil end degenerates the probe to
// the start instant: only appointments whose interval contains it conflict.
// Appointments with no end time occupy a zero-length interval.
func (r *appointmentRepository) FindOverlapping(ctx context.Context, artistID uuid.UUID, start time.Time, end *time.Time, excludeID *uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT id, artist_id, customer_id, start_time, end_time,
			   status, title, description, deposit_amount, deposit_paid,
			   cancel_reason, reminder_sent, created_at, updated_at
		FROM appointments
		WHERE artist_id = $1
		AND status IN ('pending', 'confirmed')
	`
	args := []interface{}{artistID, start}
	argCount := 3

	if end != nil {
		query += fmt.Sprintf(" AND start_time < $%d AND COALESCE(end_time, start_time) > $2", argCount)
		args = append(args, *end)
		argCount++
	} else {
		query += " AND start_time <= $2 AND COALESCE(end_time, start_time) > $2"
	}

	if excludeID != nil {
		query += fmt.Sprintf(" AND id != $%d", argCount)
		args = append(args, *excludeID)
	}

	query += " ORDER BY start_time ASC"

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, mapError("find overlapping appointments", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListUnreminded(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT id, artist_id, customer_id, start_time, end_time,
			   status, title, description, deposit_amount, deposit_paid,
			   cancel_reason, reminder_sent, created_at, updated_at
		FROM appointments
		WHERE status IN ('pending', 'confirmed')
		AND reminder_sent = FALSE
		AND start_time >= $1
		AND start_time < $2
		ORDER BY start_time ASC
	`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, from, to)
	if err != nil {
		return nil, mapError("list unreminded appointments", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) MarkReminded(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE appointments
		SET reminder_sent = TRUE, updated_at = $1
		WHERE id = $2
	`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return mapError("mark appointment reminded", err)
	}
	return nil
}
