package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/google/uuid"

	"github.com/inkhaus/studio-api/internal/model"
	"github.com/inkhaus/studio-api/pkg/errors"
)

func (r *artistRepository) Get(ctx context.Context, id uuid.UUID) (*model.Artist, error) {
	query := `
		SELECT id, name, email, bio, hourly_rate, active, created_at, updated_at, deleted_at
		FROM artists
		WHERE id = $1 AND deleted_at IS NULL
	`
	var artist model.Artist
	err := r.db.GetContext(ctx, &artist, query, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFound("artist", err)
		}
		return nil, mapError("get artist", err)
	}
	return &artist, nil
}

// GetRate returns the artist's configured hourly rate, nil when the artist
// prices at the studio standard rate or does not exist. Pricing treats a
// missing artist the same as an unrated one.
func (r *artistRepository) GetRate(ctx context.Context, id uuid.UUID) (*float64, error) {
	query := `
		SELECT hourly_rate
		FROM artists
		WHERE id = $1 AND deleted_at IS NULL
	`
	var rate *float64
	err := r.db.GetContext(ctx, &rate, query, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get artist rate", err)
	}
	return rate, nil
}

func (r *artistRepository) List(ctx context.Context) ([]*model.Artist, error) {
	query := `
		SELECT id, name, email, bio, hourly_rate, active, created_at, updated_at, deleted_at
		FROM artists
		WHERE deleted_at IS NULL
		ORDER BY name ASC
	`
	var artists []*model.Artist
	err := r.db.SelectContext(ctx, &artists, query)
	if err != nil {
		return nil, mapError("list artists", err)
	}
	return artists, nil
}
