package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/airgrid/surface-backend-go/internal/config"
	"github.com/airgrid/surface-backend-go/internal/grid"
	"github.com/airgrid/surface-backend-go/internal/models"
	"github.com/airgrid/surface-backend-go/internal/service"
	"github.com/airgrid/surface-backend-go/pkg/response"
)

// GridHandler handles HTTP requests for grid generation and diagnostics
type GridHandler struct {
	service *service.SurfaceService
}

// NewGridHandler creates a new grid handler
func NewGridHandler(service *service.SurfaceService) *GridHandler {
	return &GridHandler{service: service}
}

type gridQuery struct {
	Region    string `form:"region" binding:"required"`
	Tier      string `form:"tier"`
	Mode      string `form:"mode"`
	MaxPoints int    `form:"max_points"`
}

// ListRegions handles GET /api/v1/regions
func (h *GridHandler) ListRegions(c *gin.Context) {
	regions := h.service.Regions()
	response.Success(c, gin.H{
		"data":  regions,
		"count": len(regions),
	})
}

// Generate handles GET /api/v1/grid
func (h *GridHandler) Generate(c *gin.Context) {
	var q gridQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	mode, err := service.ParseMode(q.Mode)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	points, err := h.service.GenerateGrid(q.Region, tierOrDefault(q.Tier), mode, nil, q.MaxPoints)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"data":  points,
		"count": len(points),
	})
}

// Statistics handles GET /api/v1/grid/stats
func (h *GridHandler) Statistics(c *gin.Context) {
	var q gridQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	stats, err := h.service.GridStatistics(q.Region, tierOrDefault(q.Tier))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, stats)
}

func tierOrDefault(s string) models.Tier {
	if s == "" {
		return models.TierMedium
	}
	return models.Tier(s)
}

// writeServiceError maps engine errors to HTTP status codes. Unknown
// region/tier/mode/method are caller errors; anything else is internal.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, config.ErrUnknownRegion),
		errors.Is(err, grid.ErrUnknownTier),
		errors.Is(err, service.ErrUnknownMode):
		response.BadRequest(c, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}
