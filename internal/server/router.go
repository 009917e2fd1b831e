package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/policydesk/policydesk-backend/internal/handlers"
	"github.com/policydesk/policydesk-backend/internal/middleware"
	"github.com/policydesk/policydesk-backend/internal/platform/logger"
	"github.com/policydesk/policydesk-backend/internal/services"
)

type RouterConfig struct {
	ServiceName    string
	AllowedOrigins string
	AuthService    services.AuthService
	AuthHandler    *handlers.AuthHandler
	PolicyHandler  *handlers.PolicyHandler
	AddressHandler *handlers.AddressHandler
	DriverHandler  *handlers.DriverHandler
	VehicleHandler *handlers.VehicleHandler
	Healthcheck    *handlers.HealthcheckHandler
	Log            *logger.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))

	origins := []string{"http://localhost:3000", "http://localhost:5173"}
	if cfg.AllowedOrigins != "" {
		origins = strings.Split(cfg.AllowedOrigins, ",")
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", cfg.Healthcheck.Healthcheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthHandler.Refresh)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(middleware.RequireAuth(cfg.AuthService, cfg.Log))
	// Auth
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// Policies
	protected.POST("/policies", cfg.PolicyHandler.CreatePolicy)
	protected.GET("/policies", cfg.PolicyHandler.ListPolicies)
	protected.GET("/policies/:id", cfg.PolicyHandler.GetPolicy)
	protected.PUT("/policies/:id", cfg.PolicyHandler.UpdatePolicyByID)
	protected.DELETE("/policies/:id", cfg.PolicyHandler.DeletePolicy)
	// Legacy verb routes kept for existing clients
	protected.GET("/getpolicy/:id", cfg.PolicyHandler.GetPolicy)
	protected.POST("/updatepolicy", cfg.PolicyHandler.UpdatePolicy)
	protected.DELETE("/policies/delete/:id", cfg.PolicyHandler.DeletePolicy)
	protected.POST("/getallpolicies", cfg.PolicyHandler.SearchPolicies)
	// Dashboard
	protected.GET("/dashboard", cfg.PolicyHandler.Dashboard)
	protected.POST("/dashboard", cfg.PolicyHandler.Dashboard)
	// Projections
	protected.GET("/getalladdresses", cfg.AddressHandler.ListAddresses)
	protected.GET("/getalldrivers", cfg.DriverHandler.ListDrivers)
	protected.GET("/getallvehicles", cfg.VehicleHandler.ListVehicles)

	return router
}
