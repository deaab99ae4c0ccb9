package appointment

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inkhaus/studio-api/internal/handler"
	"github.com/inkhaus/studio-api/internal/model"
	"github.com/inkhaus/studio-api/internal/service/availability"
	"github.com/inkhaus/studio-api/internal/service/booking"
	"github.com/inkhaus/studio-api/internal/service/cancellation"
	"github.com/inkhaus/studio-api/pkg/errors"
)

type Handler struct {
	bookingSvc      *booking.Service
	availabilitySvc *availability.Service
	cancellationSvc *cancellation.Service
}

func NewHandler(bookingSvc *booking.Service, availabilitySvc *availability.Service, cancellationSvc *cancellation.Service) *Handler {
	return &Handler{
		bookingSvc:      bookingSvc,
		availabilitySvc: availabilitySvc,
		cancellationSvc: cancellationSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("/availability", h.CheckAvailability)
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id/reschedule", h.RescheduleAppointment)
		appointments.POST("/:id/cancel", h.CancelAppointment)
		appointments.POST("/:id/deposit", h.DepositWebhook)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	appointment, err := h.bookingSvc.Schedule(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": appointment})
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid appointment ID"})
		return
	}

	appointment, err := h.bookingSvc.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": appointment})
}

func (h *Handler) ListAppointments(c *gin.Context) {
	filters := &model.AppointmentFilters{}

	if id := c.Query("artist_id"); id != "" {
		artistID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid artist ID"})
			return
		}
		filters.ArtistID = artistID
	}

	if id := c.Query("customer_id"); id != "" {
		customerID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid customer ID"})
			return
		}
		filters.CustomerID = customerID
	}

	if status := c.Query("status"); status != "" {
		filters.Status = model.AppointmentStatus(status)
	}

	if date := c.Query("from"); date != "" {
		from, err := time.Parse(time.RFC3339, date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid from date"})
			return
		}
		filters.StartDate = from
	}

	if date := c.Query("to"); date != "" {
		to, err := time.Parse(time.RFC3339, date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid to date"})
			return
		}
		filters.EndDate = to
	}

	appointments, err := h.bookingSvc.List(c.Request.Context(), filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": appointments})
}

// CheckAvailability probes a window for an artist. The end query parameter is
// optional: omitting it probes the start instant only.
func (h *Handler) CheckAvailability(c *gin.Context) {
	artistID, err := uuid.Parse(c.Query("artist_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid artist ID"})
		return
	}

	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid start time"})
		return
	}

	var end *time.Time
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid end time"})
			return
		}
		end = &parsed
	}

	var excludeID *uuid.UUID
	if raw := c.Query("exclude"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid exclude ID"})
			return
		}
		excludeID = &parsed
	}

	result, err := h.availabilitySvc.Check(c.Request.Context(), artistID, start, end, excludeID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) RescheduleAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid appointment ID"})
		return
	}

	var req model.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	appointment, err := h.bookingSvc.Reschedule(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": appointment})
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid appointment ID"})
		return
	}

	var req model.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	decision, err := h.cancellationSvc.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		if errors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, decision)
			return
		}
		handler.RespondError(c, err)
		return
	}

	status := http.StatusOK
	if !decision.Success {
		// Policy refusal, not an error: the caller corrected nothing wrong.
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, decision)
}

// DepositWebhook receives the payment processor's outcome report. The
// processor protocol itself stays outside this service; only success reaches
// here with a body of {"paid": true}.
func (h *Handler) DepositWebhook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid appointment ID"})
		return
	}

	var req struct {
		Paid bool `json:"paid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}
	if !req.Paid {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
		return
	}

	appointment, err := h.bookingSvc.MarkDepositPaid(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": appointment})
}
