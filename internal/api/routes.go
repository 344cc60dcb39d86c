package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asdscreen/asd-screening-api/internal/auth"
	"github.com/asdscreen/asd-screening-api/internal/logger"
	"github.com/asdscreen/asd-screening-api/internal/middleware"
	"github.com/asdscreen/asd-screening-api/internal/places"
	"github.com/asdscreen/asd-screening-api/internal/services"
	"github.com/asdscreen/asd-screening-api/pkg/config"
)

// Dependencies are the collaborators the router wires into handlers
type Dependencies struct {
	Config        *config.Config
	Logger        logger.Logger
	Services      *services.Services
	Places        HospitalFinder
	PlacesMonitor *places.HealthMonitor
	DB            Pinger
}

// NewRouter builds a gin engine with the middleware stack and all routes
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	cfg := deps.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.GetTrustedProxies()); err != nil {
		return nil, err
	}

	r.Use(gin.Recovery())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.LoggingMiddleware(deps.Logger))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg))
	r.Use(middleware.InputValidationMiddleware(cfg.MaxRequestSize))
	if cfg.EnableRateLimit {
		r.Use(middleware.RateLimitingMiddleware(middleware.NewRateLimiter(cfg.RateLimitPerMinute)))
	}

	SetupRoutes(r, deps)
	return r, nil
}

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, deps Dependencies) {
	authHandler := NewAuthHandler(deps.Services.Auth)
	questionnaireHandler := NewQuestionnaireHandler()
	predictionHandler := NewPredictionHandler(deps.Services.Prediction, deps.Services.Assessment)
	placesHandler := NewPlacesHandler(deps.Places)
	healthHandler := NewHealthHandler(deps.DB, deps.PlacesMonitor)

	// Public routes
	r.GET("/get_questions", questionnaireHandler.GetQuestions)
	r.POST("/signup", authHandler.Signup)
	r.POST("/login", authHandler.Login)
	r.GET("/proxy/hospitals", placesHandler.Hospitals)

	// Operational routes
	r.GET("/health", healthHandler.GetHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected routes
	protected := r.Group("/")
	protected.Use(auth.JWTMiddleware(deps.Services.JWT))
	{
		protected.POST("/predict", predictionHandler.Predict)
		protected.GET("/user/assessments", predictionHandler.ListAssessments)
	}

	r.NoRoute(routeNotFound)
}
