package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/airgrid/surface-backend-go/internal/config"
	"github.com/airgrid/surface-backend-go/internal/grid"
	"github.com/airgrid/surface-backend-go/internal/handler"
	"github.com/airgrid/surface-backend-go/internal/interp"
	"github.com/airgrid/surface-backend-go/internal/middleware"
	"github.com/airgrid/surface-backend-go/internal/service"
)

// SetupRouter builds the gin engine with all routes wired.
func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	surfaceService := service.NewSurfaceService(
		cfg.Regions,
		grid.NewGenerator(nil),
		interp.NewEstimator(),
		cfg.EvalWorkers,
	)
	gridHandler := handler.NewGridHandler(surfaceService)
	surfaceHandler := handler.NewSurfaceHandler(surfaceService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Surface backend is running",
		})
	})

	api := r.Group("/api/v1")
	{
		api.GET("/regions", gridHandler.ListRegions)
		api.GET("/grid", gridHandler.Generate)
		api.GET("/grid/stats", gridHandler.Statistics)
		api.POST("/interpolate", surfaceHandler.Interpolate)
		api.POST("/surface", surfaceHandler.Evaluate)
	}

	return r
}
