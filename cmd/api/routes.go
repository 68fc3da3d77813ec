package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all routes
func (a *App) setupRoutes() {
	a.Router.GET("/health", a.HealthHandler.Check)
	a.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := a.Router.Group("/api/v1")
	{
		api.POST("/search", a.SearchHandler.Search)
		api.POST("/suggestions", a.SearchHandler.Suggestions)
		api.GET("/property/:id", a.PropertyHandler.Get)
		api.GET("/locations", a.LocationsHandler.List)
	}
}
