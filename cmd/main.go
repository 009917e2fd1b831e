package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/policydesk/policydesk-backend/internal/db"
	"github.com/policydesk/policydesk-backend/internal/handlers"
	"github.com/policydesk/policydesk-backend/internal/observability"
	"github.com/policydesk/policydesk-backend/internal/platform/logger"
	"github.com/policydesk/policydesk-backend/internal/repos"
	"github.com/policydesk/policydesk-backend/internal/server"
	"github.com/policydesk/policydesk-backend/internal/services"
	"github.com/policydesk/policydesk-backend/internal/utils"
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
	serviceName := utils.GetEnv("SERVICE_NAME", "policydesk-backend", log)
	environment := utils.GetEnv("ENVIRONMENT", "development", log)
	port := utils.GetEnv("PORT", "8080", log)
	allowedOrigins := utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

	// Tracing
	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: environment,
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(ctx); err != nil {
			log.Warn("OTel shutdown failed", "error", err)
		}
	}()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	addressRepo := repos.NewAddressRepo(thePG, log)
	policyRepo := repos.NewPolicyRepo(thePG, log)
	policyHolderRepo := repos.NewPolicyHolderRepo(thePG, log)
	driverRepo := repos.NewDriverRepo(thePG, log)
	vehicleRepo := repos.NewVehicleRepo(thePG, log)
	coverageRepo := repos.NewVehicleCoverageRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(
		thePG,
		log,
		userRepo,
		userTokenRepo,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	policyService := services.NewPolicyService(
		thePG,
		log,
		policyRepo,
		policyHolderRepo,
		addressRepo,
		driverRepo,
		vehicleRepo,
		coverageRepo,
	)
	addressService := services.NewAddressService(thePG, log, policyRepo)
	driverService := services.NewDriverService(thePG, log, driverRepo)
	vehicleService := services.NewVehicleService(thePG, log, vehicleRepo)

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService, log)
	policyHandler := handlers.NewPolicyHandler(policyService, log)
	addressHandler := handlers.NewAddressHandler(addressService, log)
	driverHandler := handlers.NewDriverHandler(driverService, log)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService, log)
	healthcheckHandler := handlers.NewHealthcheckHandler(thePG)

	// Router
	router := server.NewRouter(server.RouterConfig{
		ServiceName:    serviceName,
		AllowedOrigins: allowedOrigins,
		AuthService:    authService,
		AuthHandler:    authHandler,
		PolicyHandler:  policyHandler,
		AddressHandler: addressHandler,
		DriverHandler:  driverHandler,
		VehicleHandler: vehicleHandler,
		Healthcheck:    healthcheckHandler,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", "error", err)
	}
	log.Info("Server exited")
}
