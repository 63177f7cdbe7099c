package api

import (
	"github.com/gin-gonic/gin"
	"github.com/router-for-me/calculator-api/internal/auth"
	"github.com/router-for-me/calculator-api/internal/config"
	"github.com/router-for-me/calculator-api/internal/http/api/handlers"
	"github.com/router-for-me/calculator-api/internal/metrics"
	"github.com/router-for-me/calculator-api/internal/ratelimit"
	"github.com/router-for-me/calculator-api/internal/store"
	"gorm.io/gorm"
)

// Dependencies groups what the routes are built from.
type Dependencies struct {
	DB           *gorm.DB
	Auth         *auth.Service
	Users        *store.UserStore
	Calculations *store.CalculationStore
	Limiter      *ratelimit.Manager
	RateLimit    config.RateLimitConfig
}

// NewRouter builds a gin engine with the standard middleware chain and every route registered.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(requestLogMiddleware())
	r.Use(metricsMiddleware())
	RegisterRoutes(r, deps)
	return r
}

// RegisterRoutes registers public, authenticated and operational routes.
func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	if r == nil || deps.DB == nil || deps.Auth == nil {
		return
	}

	healthHandler := handlers.NewHealthHandler(deps.DB)
	r.GET("/", healthHandler.Info)
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	userHandler := handlers.NewUserHandler(deps.Users)
	r.POST("/users", userHandler.Create)
	r.GET("/users", userHandler.List)
	r.GET("/users/:id", userHandler.Get)
	r.DELETE("/users/:id", userHandler.Delete)

	authHandler := handlers.NewAuthHandler(deps.Auth)
	r.POST("/login", rateLimitMiddleware(deps.Limiter, ratelimit.ScopeLogin, deps.RateLimit.Login), authHandler.Login)

	authed := r.Group("")
	authed.Use(authMiddleware(deps.Auth))
	authed.GET("/me", authHandler.Me)

	calcHandler := handlers.NewCalculatorHandler(deps.Calculations)
	authed.POST("/calculator", rateLimitMiddleware(deps.Limiter, ratelimit.ScopeUser, deps.RateLimit.Calculator), calcHandler.Calculate)
	authed.GET("/calculator/history", calcHandler.History)
	authed.DELETE("/calculator/history", calcHandler.ClearHistory)
}
