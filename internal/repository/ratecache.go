package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/inkhaus/studio-api/internal/model"
)

// CachedArtistRepository wraps an ArtistRepository with a short-lived rate
// cache. Pricing hits GetRate on every quote, and rates change rarely enough
// that a few minutes of staleness is acceptable.
type CachedArtistRepository struct {
	inner ArtistRepository
	cache *gocache.Cache
}

func NewCachedArtistRepository(inner ArtistRepository, ttl time.Duration) *CachedArtistRepository {
	return &CachedArtistRepository{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (r *CachedArtistRepository) Get(ctx context.Context, id uuid.UUID) (*model.Artist, error) {
	return r.inner.Get(ctx, id)
}

func (r *CachedArtistRepository) List(ctx context.Context) ([]*model.Artist, error) {
	return r.inner.List(ctx)
}

func (r *CachedArtistRepository) GetRate(ctx context.Context, id uuid.UUID) (*float64, error) {
	key := id.String()
	if cached, found := r.cache.Get(key); found {
		return cached.(*float64), nil
	}

	rate, err := r.inner.GetRate(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cache.Set(key, rate, gocache.DefaultExpiration)
	return rate, nil
}

// Invalidate drops a cached rate, for use after an admin rate change.
func (r *CachedArtistRepository) Invalidate(id uuid.UUID) {
	r.cache.Delete(id.String())
}
