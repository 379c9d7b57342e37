package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/payback-backend/internal/http/handlers"
	httpMW "github.com/yungbote/payback-backend/internal/http/middleware"
	"github.com/yungbote/payback-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	IOUHandler     *httpH.IOUHandler
	PaymentHandler *httpH.PaymentHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// IOUs
		if cfg.IOUHandler != nil {
			protected.GET("/ious", cfg.IOUHandler.List)
			protected.POST("/ious", cfg.IOUHandler.Create)
			protected.GET("/ious/:id", cfg.IOUHandler.GetDetail)
			protected.PATCH("/ious/:id", cfg.IOUHandler.UpdateStatus)
			protected.DELETE("/ious/:id", cfg.IOUHandler.Delete)
		}

		// Payments
		if cfg.PaymentHandler != nil {
			protected.POST("/payments", cfg.PaymentHandler.Create)
			protected.GET("/payments", cfg.PaymentHandler.List)
		}
	}

	return r
}
