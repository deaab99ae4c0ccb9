package pricing

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"

	"github.com/inkhaus/studio-api/config"
	"github.com/inkhaus/studio-api/internal/model"
	"github.com/inkhaus/studio-api/pkg/errors"
)

const (
	MinComplexity = 1
	MaxComplexity = 5
)

// RateStore resolves an artist's configured hourly rate. A nil rate means the
// artist prices at the studio standard rate.
type RateStore interface {
	GetRate(ctx context.Context, artistID uuid.UUID) (*float64, error)
}

// Tables is the immutable pricing configuration resolved once at startup.
type Tables struct {
	StandardHourlyRate float64
	DepositRate        float64
	BaseHours          map[string]float64
	SizeFactors        map[string]float64
	PlacementFactors   map[string]float64
	ComplexityFactors  map[int]float64
}

// Engine computes quotes from the studio tables. Apart from the artist-rate
// lookup it is pure: identical inputs always produce the identical quote.
type Engine struct {
	tables Tables
	rates  RateStore
}

// QuoteInput are the categorical pricing inputs.
type QuoteInput struct {
	Size             model.SizeCategory
	Placement        model.Placement
	Complexity       int
	ArtistID         *uuid.UUID
	CustomHourlyRate *float64
}

func NewEngine(cfg config.StudioConfig, rates RateStore) (*Engine, error) {
	tables, err := buildTables(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid studio pricing config: %w", err)
	}
	return &Engine{tables: tables, rates: rates}, nil
}

func buildTables(cfg config.StudioConfig) (Tables, error) {
	if cfg.StandardHourlyRate <= 0 {
		return Tables{}, fmt.Errorf("standard hourly rate must be positive")
	}
	if cfg.DepositRate < 0 || cfg.DepositRate > 1 {
		return Tables{}, fmt.Errorf("deposit rate must be within [0, 1]")
	}
	if len(cfg.BaseHours) == 0 || len(cfg.SizeFactors) == 0 {
		return Tables{}, fmt.Errorf("base hours and size factors are required")
	}
	for size := range cfg.SizeFactors {
		if _, ok := cfg.BaseHours[size]; !ok {
			return Tables{}, fmt.Errorf("size %q has a factor but no base hours", size)
		}
	}

	complexity := make(map[int]float64, len(cfg.ComplexityFactors))
	for key, factor := range cfg.ComplexityFactors {
		level, err := strconv.Atoi(key)
		if err != nil {
			return Tables{}, fmt.Errorf("complexity level %q is not an integer", key)
		}
		complexity[level] = factor
	}
	for level := MinComplexity; level <= MaxComplexity; level++ {
		if _, ok := complexity[level]; !ok {
			return Tables{}, fmt.Errorf("complexity factor for level %d is missing", level)
		}
	}

	return Tables{
		StandardHourlyRate: cfg.StandardHourlyRate,
		DepositRate:        cfg.DepositRate,
		BaseHours:          cfg.BaseHours,
		SizeFactors:        cfg.SizeFactors,
		PlacementFactors:   cfg.PlacementFactors,
		ComplexityFactors:  complexity,
	}, nil
}

// Calculate prices a session. Rate resolution order: explicit custom rate,
// then the artist's configured rate, then the studio standard rate.
func (e *Engine) Calculate(ctx context.Context, in QuoteInput) (*model.PricingQuote, error) {
	sizeFactor, ok := e.tables.SizeFactors[string(in.Size)]
	if !ok {
		return nil, errors.NewInvalidInput(fmt.Sprintf("unknown size category %q", in.Size))
	}

	if err := validateComplexity(in.Complexity); err != nil {
		return nil, err
	}
	complexityFactor := e.tables.ComplexityFactors[in.Complexity]

	// Placements are advisory, not safety-critical: unknown ones price at a
	// neutral factor instead of erroring.
	placementFactor, ok := e.tables.PlacementFactors[string(in.Placement)]
	if !ok {
		placementFactor = 1.0
	}

	rate, err := e.resolveRate(ctx, in)
	if err != nil {
		return nil, err
	}

	hours, err := e.EstimateDurationHours(in.Size, in.Complexity)
	if err != nil {
		return nil, err
	}

	total := roundHalfUp(rate * hours * sizeFactor * placementFactor * complexityFactor)
	deposit := roundHalfUp(float64(total) * e.tables.DepositRate)

	return &model.PricingQuote{
		BaseHourlyRate:   rate,
		SizeFactor:       sizeFactor,
		PlacementFactor:  placementFactor,
		ComplexityFactor: complexityFactor,
		EstimatedHours:   hours,
		TotalPrice:       total,
		DepositAmount:    deposit,
	}, nil
}

func (e *Engine) resolveRate(ctx context.Context, in QuoteInput) (float64, error) {
	if in.CustomHourlyRate != nil {
		if *in.CustomHourlyRate <= 0 {
			return 0, errors.NewInvalidInput("custom hourly rate must be positive")
		}
		return *in.CustomHourlyRate, nil
	}

	if in.ArtistID != nil {
		rate, err := e.rates.GetRate(ctx, *in.ArtistID)
		if err != nil {
			return 0, fmt.Errorf("failed to look up artist rate: %w", err)
		}
		if rate != nil {
			return *rate, nil
		}
	}

	return e.tables.StandardHourlyRate, nil
}

// roundHalfUp rounds to the nearest whole currency unit, ties away from zero
// on the upper side. All pricing inputs are non-negative, so math.Floor(x+0.5)
// is exactly half-up.
func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
