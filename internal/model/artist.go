package model

import (
	"time"

	"github.com/google/uuid"
)

// Artist is a studio service provider. HourlyRate is nullable: artists without
// a configured rate price at the studio standard rate.
type Artist struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	Email      string     `db:"email" json:"email"`
	Bio        string     `db:"bio" json:"bio,omitempty"`
	HourlyRate *float64   `db:"hourly_rate" json:"hourly_rate,omitempty"`
	Active     bool       `db:"active" json:"active"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}
