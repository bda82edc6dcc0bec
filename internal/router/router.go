package router

import (
	"github.com/gin-gonic/gin"

	"tubely/internal/handler"
	"tubely/internal/logger"
	"tubely/internal/middleware"
	"tubely/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	videoH *handler.VideoHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	httpLog := logger.Component("http")

	// Global middleware
	r.Use(middleware.Recovery(httpLog))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(httpLog))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	videos := protected.Group("/videos")
	videos.POST("", videoH.Create)
	videos.GET("", videoH.List)
	videos.GET("/:videoID", videoH.GetByID)
	videos.POST("/:videoID/upload", videoH.Upload)

	return r
}
