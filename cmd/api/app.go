package main

import (
	"net/http"

	"stayscout/internal/geo"
	"stayscout/internal/handlers"
	"stayscout/internal/intent"
	"stayscout/internal/middleware"
	"stayscout/internal/provider"
	"stayscout/internal/resilience"
	"stayscout/internal/search"
	"stayscout/pkg/cache"
	"stayscout/pkg/config"
	"stayscout/pkg/logger"
	"stayscout/pkg/metrics"
	"stayscout/pkg/openrouter"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// App represents the application structure
type App struct {
	Config           *config.Config
	Router           *gin.Engine
	SearchHandler    *handlers.SearchHandler
	PropertyHandler  *handlers.PropertyHandler
	LocationsHandler *handlers.LocationsHandler
	HealthHandler    *handlers.HealthHandler
	RateLimiter      *middleware.RateLimiter
	Server           *http.Server

	cacheEnabled bool
}

// Create and initialize a new App instance
func NewApp(cfg *config.Config) *App {
	app := &App{Config: cfg}

	// Initialize infrastructure
	app.initializeCache()
	app.initializeMetrics()
	app.initializeRateLimiter()

	// Initialize business logic
	app.initializeDependencies()

	// Initialize web layer
	app.initializeRouter()

	return app
}

// initialize the Redis cache. A missing Redis only disables caching; the
// search path stays up.
func (a *App) initializeCache() {
	if err := cache.InitRedis(a.Config.Redis.Host, a.Config.Redis.Port, a.Config.Redis.Password, a.Config.Redis.DB); err != nil {
		logger.GlobalLogger.Warnf("Redis unavailable, search caching disabled: %v", err)
		a.cacheEnabled = false
		return
	}
	a.cacheEnabled = true
}

// initialize Prometheus metrics
func (a *App) initializeMetrics() {
	metrics.Init()
}

// initialize the rate limiter
func (a *App) initializeRateLimiter() {
	a.RateLimiter = middleware.NewRateLimiter(rate.Limit(a.Config.RequestRate()), a.Config.RateLimit.Burst)
	go a.RateLimiter.Cleanup()
}

// initialize all dependencies
func (a *App) initializeDependencies() {
	resolver := geo.NewResolver()
	extractor := intent.NewExtractor(a.Config.Search.DefaultLocation)

	breaker := resilience.NewCircuitBreaker(a.Config.Breaker.FailureThreshold, a.Config.RecoveryTimeout())
	plan := resilience.RetryPlan{
		MaxRetries: a.Config.Retry.MaxRetries,
		BaseDelay:  a.Config.BaseDelay(),
		MaxDelay:   a.Config.MaxDelay(),
	}

	providerClient := provider.NewClient(
		a.Config.Provider.BaseURL,
		a.Config.Provider.APIKey,
		a.Config.Provider.APIHost,
		a.Config.ProviderTimeout(),
		resolver,
		breaker,
		plan,
	)

	aggregator := search.NewAggregator(
		providerClient,
		extractor,
		a.Config.Search.Concurrency,
		a.Config.Search.MaxLocations,
		a.Config.Search.ResultLimit,
		a.Config.RequestTimeout(),
	)
	searchService := search.NewService(aggregator, a.cacheEnabled, a.Config.CacheTTL())

	enhancer := openrouter.NewEnhancer(
		a.Config.OpenRouter.APIKey,
		a.Config.OpenRouter.BaseURL,
		a.Config.OpenRouter.Model,
		a.Config.OpenRouterTimeout(),
	)

	a.SearchHandler = handlers.NewSearchHandler(searchService, enhancer)
	a.PropertyHandler = handlers.NewPropertyHandler(providerClient, enhancer)
	a.LocationsHandler = handlers.NewLocationsHandler(resolver)
	a.HealthHandler = handlers.NewHealthHandler(breaker, enhancer)
}

// set up the Gin router with middleware and routes
func (a *App) initializeRouter() {
	a.Router = gin.New()
	a.setupMiddleware()
	a.setupRoutes()
}

// cleanup operations
func (a *App) cleanup() {
	if a.cacheEnabled {
		cache.CloseRedis()
	}
}
