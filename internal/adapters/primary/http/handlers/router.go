package handlers

import (
	"github.com/gin-gonic/gin"

	"portfolio-service/internal/adapters/primary/http/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	RateLimiter    *middleware.RateLimiter
	UploadDir      string
	UploadPath     string
}

// NewRouter builds the engine with the edge middleware chain, the API group
// and the static upload directory.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logging(),
		gin.Recovery(),
		middleware.CanonicalHost(),
		middleware.SecurityHeaders(),
		// Preflight requests match no route, so CORS must sit on the engine.
		middleware.CORS(cfg.AllowedOrigins),
	)

	router.GET("/healthz", h.Healthz)
	if cfg.UploadDir != "" && cfg.UploadPath != "" {
		router.Static(cfg.UploadPath, cfg.UploadDir)
	}

	api := router.Group("/api")
	if cfg.RateLimiter != nil {
		api.Use(cfg.RateLimiter.Middleware())
	}
	h.RegisterRoutes(api)

	return router
}
