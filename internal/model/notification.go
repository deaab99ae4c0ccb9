package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

type NotificationType string

const (
	NotificationBookingCreated   NotificationType = "booking_created"
	NotificationBookingConfirmed NotificationType = "booking_confirmed"
	NotificationBookingCancelled NotificationType = "booking_cancelled"
	NotificationBookingReminder  NotificationType = "booking_reminder"
)

// Notification is a queued customer-facing message tied to an appointment.
type Notification struct {
	ID            uuid.UUID          `db:"id" json:"id"`
	AppointmentID uuid.UUID          `db:"appointment_id" json:"appointment_id"`
	Recipient     string             `db:"recipient" json:"recipient"`
	Type          NotificationType   `db:"type" json:"type"`
	Status        NotificationStatus `db:"status" json:"status"`
	Error         *string            `db:"error" json:"error,omitempty"`
	CreatedAt     time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `db:"updated_at" json:"updated_at"`
}
