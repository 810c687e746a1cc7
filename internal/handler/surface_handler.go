package handler

import (
	"errors"
	"math"

	"github.com/gin-gonic/gin"

	"github.com/airgrid/surface-backend-go/internal/interp"
	"github.com/airgrid/surface-backend-go/internal/models"
	"github.com/airgrid/surface-backend-go/internal/service"
	"github.com/airgrid/surface-backend-go/pkg/response"
)

// SurfaceHandler handles HTTP requests for interpolation and surface
// evaluation
type SurfaceHandler struct {
	service *service.SurfaceService
}

// NewSurfaceHandler creates a new surface handler
func NewSurfaceHandler(service *service.SurfaceService) *SurfaceHandler {
	return &SurfaceHandler{service: service}
}

// observationPayload is the wire form of an observation. A missing weight
// defaults to 1.0; an explicit zero stays zero.
type observationPayload struct {
	Lat       float64  `json:"lat" binding:"gte=-90,lte=90"`
	Lon       float64  `json:"lon" binding:"gte=-180,lte=180"`
	Value     float64  `json:"value"`
	Weight    *float64 `json:"weight,omitempty" binding:"omitempty,gte=0"`
	Timestamp int64    `json:"timestamp,omitempty"`
	Source    string   `json:"source,omitempty"`
}

func (p observationPayload) toModel() models.Observation {
	weight := 1.0
	if p.Weight != nil {
		weight = *p.Weight
	}
	return models.Observation{
		Lat:       p.Lat,
		Lon:       p.Lon,
		Value:     p.Value,
		Weight:    weight,
		Timestamp: p.Timestamp,
		Source:    p.Source,
	}
}

func toObservations(payloads []observationPayload) []models.Observation {
	observations := make([]models.Observation, len(payloads))
	for i, p := range payloads {
		observations[i] = p.toModel()
	}
	return observations
}

type targetPayload struct {
	Lat float64 `json:"lat" binding:"gte=-90,lte=90"`
	Lon float64 `json:"lon" binding:"gte=-180,lte=180"`
}

type interpolateRequest struct {
	Target       targetPayload        `json:"target"`
	Observations []observationPayload `json:"observations"`
	Method       string               `json:"method"`
	Now          int64                `json:"now"`
}

// Interpolate handles POST /api/v1/interpolate
func (h *SurfaceHandler) Interpolate(c *gin.Context) {
	var req interpolateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	method, err := interp.ParseMethod(req.Method)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	value, ok, err := h.service.Interpolate(req.Target.Lat, req.Target.Lon,
		toObservations(req.Observations), method, req.Now)
	if err != nil {
		writeInterpError(c, err)
		return
	}

	var result *float64
	if ok {
		result = &value
	}
	response.Success(c, gin.H{
		"value":  result,
		"method": method,
	})
}

type surfaceRequest struct {
	Region       string               `json:"region" binding:"required"`
	Tier         string               `json:"tier"`
	Mode         string               `json:"mode"`
	Method       string               `json:"method"`
	Observations []observationPayload `json:"observations"`
	Now          int64                `json:"now"`
}

// predictionPayload mirrors models.PredictionPoint with the value rounded to
// one decimal for storage compactness, as the heatmap serializer always did.
type predictionPayload struct {
	Lat   float64  `json:"lat"`
	Lng   float64  `json:"lng"`
	Value *float64 `json:"value"`
}

// Evaluate handles POST /api/v1/surface
func (h *SurfaceHandler) Evaluate(c *gin.Context) {
	var req surfaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	mode, err := service.ParseMode(req.Mode)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	method, err := interp.ParseMethod(req.Method)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	observations := toObservations(req.Observations)
	predictions, err := h.service.EvaluateSurface(req.Region, tierOrDefault(req.Tier), mode, observations, method, req.Now)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	payload := make([]predictionPayload, len(predictions))
	for i, p := range predictions {
		payload[i] = predictionPayload{Lat: p.Lat, Lng: p.Lon}
		if p.Value != nil {
			rounded := math.Round(*p.Value*10) / 10
			payload[i].Value = &rounded
		}
	}

	response.Success(c, gin.H{
		"data":              payload,
		"count":             len(payload),
		"observations_used": len(observations),
		"method":            method,
		"mode":              mode,
	})
}

func writeInterpError(c *gin.Context, err error) {
	if errors.Is(err, interp.ErrUnknownMethod) {
		response.BadRequest(c, err.Error())
		return
	}
	writeServiceError(c, err)
}
