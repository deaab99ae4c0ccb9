package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkhaus/studio-api/config"
	"github.com/inkhaus/studio-api/internal/model"
	"github.com/inkhaus/studio-api/internal/pricing"
)

type stubRateStore struct {
	rates map[uuid.UUID]*float64
}

func (s *stubRateStore) GetRate(_ context.Context, id uuid.UUID) (*float64, error) {
	return s.rates[id], nil
}

func testStudioConfig() config.StudioConfig {
	return config.StudioConfig{
		StandardHourlyRate: 120,
		DepositRate:        0.30,
		BaseHours:          map[string]float64{"small": 1, "medium": 3, "large": 5},
		SizeFactors:        map[string]float64{"small": 1.0, "medium": 2.0, "large": 3.5},
		PlacementFactors:   map[string]float64{"arm": 1.0, "back": 1.0, "ribs": 1.5},
		ComplexityFactors:  map[string]float64{"1": 1.0, "2": 1.10, "3": 1.15, "4": 1.20, "5": 1.25},
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine, err := pricing.NewEngine(testStudioConfig(), &stubRateStore{rates: map[uuid.UUID]*float64{}})
	require.NoError(t, err)

	r := gin.New()
	NewHandler(engine, nil).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postQuote(t *testing.T, r *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/quote", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestQuoteMediumArmComplexityThree(t *testing.T) {
	r := newTestRouter(t)
	rate := 150.0

	w := postQuote(t, r, model.QuoteRequest{
		Size:             "medium",
		Placement:        "arm",
		Complexity:       3,
		CustomHourlyRate: &rate,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var quote model.PricingQuote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.Equal(t, 150.0, quote.BaseHourlyRate)
	assert.Equal(t, 2.0, quote.SizeFactor)
	assert.Equal(t, 1.0, quote.PlacementFactor)
	assert.Equal(t, 1.15, quote.ComplexityFactor)
	assert.Equal(t, 3.0, quote.EstimatedHours)
	assert.Equal(t, int64(1035), quote.TotalPrice)
	assert.Equal(t, int64(311), quote.DepositAmount)
}

func TestQuoteResponseFieldNames(t *testing.T) {
	r := newTestRouter(t)

	w := postQuote(t, r, model.QuoteRequest{Size: "small", Placement: "back", Complexity: 1})
	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	for _, field := range []string{
		"base_hourly_rate", "size_factor", "placement_factor",
		"complexity_factor", "estimated_hours", "total_price", "deposit_amount",
	} {
		assert.Contains(t, raw, field)
	}
}

func TestQuoteUnknownSizeIsRejected(t *testing.T) {
	r := newTestRouter(t)

	w := postQuote(t, r, model.QuoteRequest{Size: "gigantic", Placement: "arm", Complexity: 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuoteMissingFieldsAreRejected(t *testing.T) {
	r := newTestRouter(t)

	w := postQuote(t, r, map[string]interface{}{"size": "small"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuoteInvalidArtistIDIsRejected(t *testing.T) {
	r := newTestRouter(t)

	w := postQuote(t, r, model.QuoteRequest{
		Size: "small", Placement: "arm", Complexity: 1, ArtistID: "not-a-uuid",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
