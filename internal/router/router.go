package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-candidate/internal/config"
	"github.com/stemsi/exstem-candidate/internal/handler"
	"github.com/stemsi/exstem-candidate/internal/metrics"
	"github.com/stemsi/exstem-candidate/internal/middleware"
	"github.com/stemsi/exstem-candidate/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Session *handler.SessionHandler
	WS      *handler.WSHandler
	System  *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(metrics.Middleware())

	router.GET("/health", handlers.System.Health)
	router.GET("/metrics", metrics.Handler())

	submitLimiter := middleware.NewRateLimiter(cfg.SubmitRatePerMinute, time.Minute)

	// ─── Session ───────────────────────────────────────────────────────
	api := router.Group("/api/v1/session")
	{
		api.GET("", handlers.Session.GetState)
		api.POST("/start", handlers.Session.Start)
		api.POST("/stop", handlers.Session.Stop)

		api.POST("/answer", handlers.Session.SelectOption)
		api.POST("/review", handlers.Session.MarkForReview)
		api.POST("/navigate", handlers.Session.Navigate)
		api.POST("/next", handlers.Session.Next)
		api.POST("/previous", handlers.Session.Previous)
		api.POST("/mark-next", handlers.Session.MarkAndNext)
		api.POST("/next-or-submit", handlers.Session.NextOrSubmit)

		api.POST("/comprehension", handlers.Session.Comprehension)
		api.POST("/submit-modal", handlers.Session.SubmitModal)
		api.POST("/submit", submitLimiter.Middleware(), handlers.Session.Submit)
	}

	// ─── WebSocket ─────────────────────────────────────────────────────
	router.GET("/ws/v1/session/stream", handlers.WS.SessionStream)

	return router
}
