package model

// SizeCategory is a closed enumeration of studio tattoo sizes. Values outside
// the configured table are rejected rather than approximated.
type SizeCategory string

const (
	SizeSmall  SizeCategory = "small"
	SizeMedium SizeCategory = "medium"
	SizeLarge  SizeCategory = "large"
)

// Placement is a body-location category. Unlike size, unknown placements are
// advisory and fall back to a neutral 1.0 factor.
type Placement string

const (
	PlacementArm  Placement = "arm"
	PlacementBack Placement = "back"
	PlacementRibs Placement = "ribs"
)

// PricingQuote is an ephemeral pricing computation. Field names are an
// integration contract with the surrounding application and must not change.
type PricingQuote struct {
	BaseHourlyRate   float64 `json:"base_hourly_rate"`
	SizeFactor       float64 `json:"size_factor"`
	PlacementFactor  float64 `json:"placement_factor"`
	ComplexityFactor float64 `json:"complexity_factor"`
	EstimatedHours   float64 `json:"estimated_hours"`
	TotalPrice       int64   `json:"total_price"`
	DepositAmount    int64   `json:"deposit_amount"`
}

// QuoteRequest is the input contract of the pricing endpoint.
type QuoteRequest struct {
	Size             string   `json:"size" binding:"required"`
	Placement        string   `json:"placement" binding:"required"`
	Complexity       int      `json:"complexity" binding:"required,min=1,max=5"`
	ArtistID         string   `json:"artistId,omitempty"`
	CustomHourlyRate *float64 `json:"customHourlyRate,omitempty"`
}
