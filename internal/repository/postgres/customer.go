package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/google/uuid"

	"github.com/inkhaus/studio-api/internal/model"
	"github.com/inkhaus/studio-api/pkg/errors"
)

func (r *customerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	query := `
		SELECT id, name, email, phone, notes, created_at, updated_at, deleted_at
		FROM customers
		WHERE id = $1 AND deleted_at IS NULL
	`
	var customer model.Customer
	err := r.db.GetContext(ctx, &customer, query, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFound("customer", err)
		}
		return nil, mapError("get customer", err)
	}
	return &customer, nil
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	query := `
		SELECT id, name, email, phone, notes, created_at, updated_at, deleted_at
		FROM customers
		WHERE email = $1 AND deleted_at IS NULL
	`
	var customer model.Customer
	err := r.db.GetContext(ctx, &customer, query, email)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFound("customer", err)
		}
		return nil, mapError("get customer by email", err)
	}
	return &customer, nil
}
