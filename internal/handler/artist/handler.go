package artist

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inkhaus/studio-api/internal/handler"
	"github.com/inkhaus/studio-api/internal/repository"
)

type Handler struct {
	repo repository.ArtistRepository
}

func NewHandler(repo repository.ArtistRepository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	artists := r.Group("/artists")
	{
		artists.GET("", h.ListArtists)
		artists.GET("/:id", h.GetArtist)
	}
}

func (h *Handler) ListArtists(c *gin.Context) {
	artists, err := h.repo.List(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": artists})
}

func (h *Handler) GetArtist(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid artist ID"})
		return
	}

	artist, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": artist})
}
