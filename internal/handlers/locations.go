package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stayscout/internal/geo"
)

type LocationsHandler struct {
	resolver *geo.Resolver
}

func NewLocationsHandler(resolver *geo.Resolver) *LocationsHandler {
	return &LocationsHandler{resolver: resolver}
}

// List returns the locations the resolver can map to provider place ids.
func (h *LocationsHandler) List(c *gin.Context) {
	locations := h.resolver.SupportedLocations()
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"locations": locations,
		"total":     len(locations),
	})
}
