package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkhaus/studio-api/config"
	"github.com/inkhaus/studio-api/internal/model"
	pkgerrors "github.com/inkhaus/studio-api/pkg/errors"
)

type stubRateStore struct {
	rates map[uuid.UUID]float64
	err   error
}

func (s *stubRateStore) GetRate(_ context.Context, artistID uuid.UUID) (*float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	if rate, ok := s.rates[artistID]; ok {
		return &rate, nil
	}
	return nil, nil
}

func studioConfig() config.StudioConfig {
	return config.StudioConfig{
		StandardHourlyRate: 120,
		DepositRate:        0.30,
		BaseHours:          map[string]float64{"small": 1, "medium": 3, "large": 5},
		SizeFactors:        map[string]float64{"small": 1.0, "medium": 2.0, "large": 3.5},
		PlacementFactors:   map[string]float64{"arm": 1.0, "back": 1.0, "ribs": 1.5},
		ComplexityFactors:  map[string]float64{"1": 1.0, "2": 1.10, "3": 1.15, "4": 1.20, "5": 1.25},
	}
}

func newTestEngine(t *testing.T, rates *stubRateStore) *Engine {
	t.Helper()
	if rates == nil {
		rates = &stubRateStore{}
	}
	engine, err := NewEngine(studioConfig(), rates)
	require.NoError(t, err)
	return engine
}

func floatPtr(v float64) *float64 { return &v }

func TestCalculateMediumArmComplexity3(t *testing.T) {
	engine := newTestEngine(t, nil)

	quote, err := engine.Calculate(context.Background(), QuoteInput{
		Size:             model.SizeMedium,
		Placement:        model.PlacementArm,
		Complexity:       3,
		CustomHourlyRate: floatPtr(150),
	})
	require.NoError(t, err)

	assert.Equal(t, 150.0, quote.BaseHourlyRate)
	assert.Equal(t, 2.0, quote.SizeFactor)
	assert.Equal(t, 1.0, quote.PlacementFactor)
	assert.Equal(t, 1.15, quote.ComplexityFactor)
	assert.Equal(t, 3.0, quote.EstimatedHours)
	// 150 * 3 * 2.0 * 1.0 * 1.15 = 1035; deposit rounds 310.5 half-up.
	assert.Equal(t, int64(1035), quote.TotalPrice)
	assert.Equal(t, int64(311), quote.DepositAmount)
}

func TestCalculateLargeRibsOutpricesMediumArm(t *testing.T) {
	engine := newTestEngine(t, nil)

	medium, err := engine.Calculate(context.Background(), QuoteInput{
		Size: model.SizeMedium, Placement: model.PlacementArm, Complexity: 3,
		CustomHourlyRate: floatPtr(150),
	})
	require.NoError(t, err)

	large, err := engine.Calculate(context.Background(), QuoteInput{
		Size: model.SizeLarge, Placement: model.PlacementRibs, Complexity: 5,
		CustomHourlyRate: floatPtr(150),
	})
	require.NoError(t, err)

	assert.Equal(t, 3.5, large.SizeFactor)
	assert.Equal(t, 1.5, large.PlacementFactor)
	assert.Equal(t, 1.25, large.ComplexityFactor)
	assert.Greater(t, large.TotalPrice, medium.TotalPrice)
}

func TestCalculateIsDeterministic(t *testing.T) {
	engine := newTestEngine(t, nil)
	in := QuoteInput{
		Size: model.SizeSmall, Placement: model.PlacementBack, Complexity: 4,
		CustomHourlyRate: floatPtr(95),
	}

	first, err := engine.Calculate(context.Background(), in)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := engine.Calculate(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCalculateDepositNeverExceedsTotal(t *testing.T) {
	engine := newTestEngine(t, nil)

	for _, size := range []model.SizeCategory{model.SizeSmall, model.SizeMedium, model.SizeLarge} {
		for _, placement := range []model.Placement{model.PlacementArm, model.PlacementBack, model.PlacementRibs, "ankle"} {
			for complexity := 1; complexity <= 5; complexity++ {
				quote, err := engine.Calculate(context.Background(), QuoteInput{
					Size: size, Placement: placement, Complexity: complexity,
					CustomHourlyRate: floatPtr(140),
				})
				require.NoError(t, err)
				assert.GreaterOrEqual(t, quote.DepositAmount, int64(0))
				assert.LessOrEqual(t, quote.DepositAmount, quote.TotalPrice)
			}
		}
	}
}

func TestCalculateComplexityIsMonotone(t *testing.T) {
	engine := newTestEngine(t, nil)

	var previous int64
	for complexity := 1; complexity <= 5; complexity++ {
		quote, err := engine.Calculate(context.Background(), QuoteInput{
			Size: model.SizeMedium, Placement: model.PlacementRibs, Complexity: complexity,
			CustomHourlyRate: floatPtr(150),
		})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, quote.TotalPrice, previous, "complexity %d must not be cheaper than %d", complexity, complexity-1)
		previous = quote.TotalPrice
	}
}

func TestCalculateUnknownSizeFails(t *testing.T) {
	engine := newTestEngine(t, nil)

	_, err := engine.Calculate(context.Background(), QuoteInput{
		Size: "sleeve", Placement: model.PlacementArm, Complexity: 2,
	})
	assert.True(t, pkgerrors.IsInvalidInput(err))
}

func TestCalculateUnknownPlacementDefaultsToNeutralFactor(t *testing.T) {
	engine := newTestEngine(t, nil)

	quote, err := engine.Calculate(context.Background(), QuoteInput{
		Size: model.SizeSmall, Placement: "collarbone", Complexity: 1,
		CustomHourlyRate: floatPtr(100),
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, quote.PlacementFactor)
	assert.Equal(t, int64(100), quote.TotalPrice)
}

func TestCalculateComplexityOutOfRangeFails(t *testing.T) {
	engine := newTestEngine(t, nil)

	for _, complexity := range []int{0, -1, 6, 42} {
		_, err := engine.Calculate(context.Background(), QuoteInput{
			Size: model.SizeSmall, Placement: model.PlacementArm, Complexity: complexity,
		})
		assert.True(t, pkgerrors.IsInvalidInput(err), "complexity %d should be rejected", complexity)
	}
}

func TestRateResolutionOrder(t *testing.T) {
	artistID := uuid.New()
	unratedArtist := uuid.New()
	engine := newTestEngine(t, &stubRateStore{rates: map[uuid.UUID]float64{artistID: 200}})

	// Custom rate beats the artist's configured rate.
	quote, err := engine.Calculate(context.Background(), QuoteInput{
		Size: model.SizeSmall, Placement: model.PlacementArm, Complexity: 1,
		ArtistID: &artistID, CustomHourlyRate: floatPtr(150),
	})
	require.NoError(t, err)
	assert.Equal(t, 150.0, quote.BaseHourlyRate)

	// Artist rate beats the studio standard.
	quote, err = engine.Calculate(context.Background(), QuoteInput{
		Size: model.SizeSmall, Placement: model.PlacementArm, Complexity: 1,
		ArtistID: &artistID,
	})
	require.NoError(t, err)
	assert.Equal(t, 200.0, quote.BaseHourlyRate)

	// No configured rate falls back to the studio standard.
	quote, err = engine.Calculate(context.Background(), QuoteInput{
		Size: model.SizeSmall, Placement: model.PlacementArm, Complexity: 1,
		ArtistID: &unratedArtist,
	})
	require.NoError(t, err)
	assert.Equal(t, 120.0, quote.BaseHourlyRate)
}

func TestEstimateDurationHours(t *testing.T) {
	engine := newTestEngine(t, nil)

	tests := []struct {
		size  model.SizeCategory
		hours float64
	}{
		{model.SizeSmall, 1},
		{model.SizeMedium, 3},
		{model.SizeLarge, 5},
	}
	for _, tt := range tests {
		hours, err := engine.EstimateDurationHours(tt.size, 3)
		require.NoError(t, err)
		assert.Equal(t, tt.hours, hours)
	}

	_, err := engine.EstimateDurationHours("micro", 3)
	assert.True(t, pkgerrors.IsInvalidInput(err))

	_, err = engine.EstimateDurationHours(model.SizeSmall, 9)
	assert.True(t, pkgerrors.IsInvalidInput(err))
}

func TestNewEngineRejectsIncompleteTables(t *testing.T) {
	cfg := studioConfig()
	delete(cfg.ComplexityFactors, "3")
	_, err := NewEngine(cfg, &stubRateStore{})
	assert.Error(t, err)

	cfg = studioConfig()
	cfg.SizeFactors["sleeve"] = 4.0
	_, err = NewEngine(cfg, &stubRateStore{})
	assert.Error(t, err, "a size factor without base hours is a config error")
}
