// Package server exposes the matching engine over HTTP.
package server

import (
	"github.com/gin-gonic/gin"

	"github.com/hmalvik/matchflow/internal/engine"
	"github.com/hmalvik/matchflow/internal/service"
)

// Config holds HTTP server options.
type Config struct {
	AllowedOrigins []string
	Addr           string
	RateLimit      float64
	RateBurst      int
	ReleaseMode    bool
}

// DefaultConfig returns sensible server defaults.
func DefaultConfig() Config {
	return Config{
		Addr:      ":8080",
		RateLimit: 20,
		RateBurst: 40,
	}
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	engine  *engine.MatchEngine
	storage service.Storage
}

// NewHandler creates a new HTTP handler around the match engine.
func NewHandler(e *engine.MatchEngine, storage service.Storage) *Handler {
	return &Handler{
		engine:  e,
		storage: storage,
	}
}

// SetupRouter creates and configures the Gin router.
func SetupRouter(cfg Config, handler *Handler) *gin.Engine {
	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestLogger())
	router.Use(CORSMiddleware(cfg.AllowedOrigins))
	if cfg.RateLimit > 0 {
		router.Use(RateLimitMiddleware(cfg.RateLimit, cfg.RateBurst))
	}

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/match", handler.SingleMatch)
		v1.POST("/match/batch", handler.BatchMatch)
		v1.GET("/matches", handler.ListMatches)
	}

	return router
}
