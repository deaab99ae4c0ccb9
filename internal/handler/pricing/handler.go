package pricing

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inkhaus/studio-api/internal/handler"
	"github.com/inkhaus/studio-api/internal/model"
	"github.com/inkhaus/studio-api/internal/pricing"
	"github.com/inkhaus/studio-api/pkg/metrics"
)

type Handler struct {
	engine  *pricing.Engine
	metrics *metrics.Metrics
}

// NewHandler wires the quote endpoint. metrics may be nil in tests.
func NewHandler(engine *pricing.Engine, m *metrics.Metrics) *Handler {
	return &Handler{engine: engine, metrics: m}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/pricing/quote", h.Quote)
}

// Quote prices a prospective session. The response field names are an
// integration contract with the booking front end.
func (h *Handler) Quote(c *gin.Context) {
	var req model.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	in := pricing.QuoteInput{
		Size:             model.SizeCategory(req.Size),
		Placement:        model.Placement(req.Placement),
		Complexity:       req.Complexity,
		CustomHourlyRate: req.CustomHourlyRate,
	}
	if req.ArtistID != "" {
		artistID, err := uuid.Parse(req.ArtistID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid artist ID"})
			return
		}
		in.ArtistID = &artistID
	}

	quote, err := h.engine.Calculate(c.Request.Context(), in)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.QuotesComputed.Inc()
	}

	c.JSON(http.StatusOK, quote)
}
