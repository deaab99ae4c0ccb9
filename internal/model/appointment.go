package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Appointment is a scheduled studio session. EndTime is nullable: a booking
// that has not been durationed yet carries only a start instant.
type Appointment struct {
	ID            uuid.UUID         `db:"id" json:"id"`
	ArtistID      uuid.UUID         `db:"artist_id" json:"artist_id"`
	CustomerID    uuid.UUID         `db:"customer_id" json:"customer_id"`
	StartTime     time.Time         `db:"start_time" json:"start_time"`
	EndTime       *time.Time        `db:"end_time" json:"end_time,omitempty"`
	Status        AppointmentStatus `db:"status" json:"status"`
	Title         string            `db:"title" json:"title,omitempty"`
	Description   string            `db:"description" json:"description,omitempty"`
	DepositAmount *int64            `db:"deposit_amount" json:"deposit_amount,omitempty"`
	DepositPaid   bool              `db:"deposit_paid" json:"deposit_paid"`
	CancelReason  *string           `db:"cancel_reason" json:"cancel_reason,omitempty"`
	ReminderSent  bool              `db:"reminder_sent" json:"reminder_sent"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at" json:"updated_at"`
}

// IsActive reports whether the appointment still blocks its slot.
func (a *Appointment) IsActive() bool {
	return a.Status == AppointmentStatusPending || a.Status == AppointmentStatusConfirmed
}

// Summary returns the conflict-reporting view of the appointment.
func (a *Appointment) Summary() AppointmentSummary {
	return AppointmentSummary{
		ID:        a.ID,
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Status:    a.Status,
	}
}

// AppointmentSummary is the shape of a conflicting appointment as reported by
// the availability checker.
type AppointmentSummary struct {
	ID        uuid.UUID         `json:"id"`
	StartTime time.Time         `json:"start_time"`
	EndTime   *time.Time        `json:"end_time,omitempty"`
	Status    AppointmentStatus `json:"status"`
}

// BookingRequest is the validated input contract for scheduling a session.
type BookingRequest struct {
	ArtistID         string   `json:"artistId" binding:"required,uuid"`
	CustomerID       string   `json:"customerId" binding:"required,uuid"`
	StartDate        string   `json:"startDate" binding:"required"`
	EndDate          string   `json:"endDate,omitempty"`
	Size             string   `json:"size" binding:"required"`
	Placement        string   `json:"placement" binding:"required"`
	Complexity       int      `json:"complexity" binding:"required,min=1,max=5"`
	CustomHourlyRate *float64 `json:"customHourlyRate,omitempty"`
	Title            string   `json:"title" binding:"max=200"`
	Description      string   `json:"description" binding:"max=2000"`
}

// RescheduleRequest moves an existing appointment to a new window.
type RescheduleRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate,omitempty"`
}

// CancelRequest carries the customer's stated reason.
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// AvailabilityResult is the ephemeral outcome of a conflict check.
type AvailabilityResult struct {
	IsAvailable bool                 `json:"isAvailable"`
	Conflicts   []AppointmentSummary `json:"conflicts"`
}

// CancellationDecision is the ephemeral outcome of applying the cancellation
// policy. Refundability only has meaning when Success is true.
type CancellationDecision struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	IsRefundable bool   `json:"isRefundable"`
}

type AppointmentFilters struct {
	ArtistID   uuid.UUID
	CustomerID uuid.UUID
	Status     AppointmentStatus
	StartDate  time.Time
	EndDate    time.Time
}
