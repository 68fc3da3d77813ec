package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"stayscout/internal/errors"
	"stayscout/internal/models"
	"stayscout/internal/normalizer"
	"stayscout/pkg/logger"
	"stayscout/pkg/openrouter"
)

// DetailsFetcher is the provider-facing contract of the property handler.
type DetailsFetcher interface {
	Details(ctx context.Context, propertyID string) (models.RawListing, error)
}

type PropertyHandler struct {
	provider   DetailsFetcher
	normalizer *normalizer.Normalizer
	enhancer   *openrouter.Enhancer
}

func NewPropertyHandler(provider DetailsFetcher, enhancer *openrouter.Enhancer) *PropertyHandler {
	return &PropertyHandler{
		provider:   provider,
		normalizer: normalizer.New(),
		enhancer:   enhancer,
	}
}

// Get returns one normalized listing with best-effort LLM annotation.
func (h *PropertyHandler) Get(c *gin.Context) {
	propertyID := c.Param("id")

	raw, err := h.provider.Details(c.Request.Context(), propertyID)
	if err != nil {
		appErr := errors.MapError(err)
		logger.GlobalLogger.Errorf("Property details failed: id=%s, error=%s", propertyID, appErr.TechnicalMessage)
		c.JSON(appErr.HTTPStatus, gin.H{
			"success": false,
			"error":   appErr.UserMessage,
		})
		return
	}

	property, ok := h.normalizer.Normalize(raw)
	if !ok {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   errors.MsgServiceUnavailable,
		})
		return
	}

	details := &models.PropertyDetails{Property: *property}
	if h.enhancer.IsAvailable() {
		h.enhancer.EnhancePropertyDetails(c.Request.Context(), details)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"property": details,
	})
}
