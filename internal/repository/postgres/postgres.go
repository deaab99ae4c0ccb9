package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/inkhaus/studio-api/internal/repository"
)

type appointmentRepository struct {
	db *sqlx.DB
}

type artistRepository struct {
	db *sqlx.DB
}

type customerRepository struct {
	db *sqlx.DB
}

type outboxRepository struct {
	db *sqlx.DB
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewArtistRepository(db *sqlx.DB) repository.ArtistRepository {
	return &artistRepository{db: db}
}

func NewCustomerRepository(db *sqlx.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}

func NewNotificationRepository(db *sqlx.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}
