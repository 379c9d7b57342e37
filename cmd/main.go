package main

import (
	"fmt"
	"os"
	"time"

	"github.com/yungbote/payback-backend/internal/db"
	internalhttp "github.com/yungbote/payback-backend/internal/http"
	"github.com/yungbote/payback-backend/internal/http/handlers"
	"github.com/yungbote/payback-backend/internal/http/middleware"
	"github.com/yungbote/payback-backend/internal/pkg/logger"
	"github.com/yungbote/payback-backend/internal/repos"
	"github.com/yungbote/payback-backend/internal/services"
	"github.com/yungbote/payback-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	port := utils.GetEnv("PORT", "8080", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	thePG := postgresService.DB()
	if err = db.AutoMigrateAll(thePG); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	iouRepo := repos.NewIOURepo(thePG, log)
	paymentRepo := repos.NewPaymentRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(
		thePG, log, userRepo, userTokenRepo,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	iouService := services.NewIOUService(thePG, log, userRepo, iouRepo, paymentRepo)
	paymentService := services.NewPaymentService(thePG, log, iouRepo, paymentRepo)

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	iouHandler := handlers.NewIOUHandler(iouService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	healthHandler := handlers.NewHealthHandler()

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router + server
	server := internalhttp.NewServer(internalhttp.RouterConfig{
		Log:            log,
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,
		IOUHandler:     iouHandler,
		PaymentHandler: paymentHandler,
		HealthHandler:  healthHandler,
	})

	log.Info("Starting server", "port", port)
	if err := server.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
