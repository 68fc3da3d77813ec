package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayscout/internal/models"
	"stayscout/internal/provider"
	"stayscout/pkg/openrouter"
)

type stubDetails struct {
	raw models.RawListing
	err error
}

func (s *stubDetails) Details(ctx context.Context, propertyID string) (models.RawListing, error) {
	return s.raw, s.err
}

func newPropertyRouter(s *stubDetails) *gin.Engine {
	enhancer := openrouter.NewEnhancer("", "", "anthropic/claude-3-haiku", 0)
	h := NewPropertyHandler(s, enhancer)

	r := gin.New()
	r.GET("/api/v1/property/:id", h.Get)
	return r
}

func getProperty(router *gin.Engine, id string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/property/"+id, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestPropertyDetailsEndpoint(t *testing.T) {
	router := newPropertyRouter(&stubDetails{
		raw: models.RawListing{Data: map[string]interface{}{
			"id":     "55501",
			"title":  "Canal House",
			"price":  float64(220),
			"rating": "4.8 (96)",
		}},
	})

	w := getProperty(router, "55501")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success  bool                   `json:"success"`
		Property models.PropertyDetails `json:"property"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "55501", resp.Property.ID)
	assert.Equal(t, "Canal House", resp.Property.Title)
	assert.Equal(t, 220, resp.Property.Price)
	assert.InDelta(t, 4.8, resp.Property.Rating, 0.001)
	assert.Equal(t, 96, resp.Property.ReviewCount)
	// the disabled enhancer leaves the insight fields empty
	assert.Empty(t, resp.Property.AIHighlights)
	assert.Empty(t, resp.Property.BestFor)
}

func TestPropertyDetailsNotFound(t *testing.T) {
	router := newPropertyRouter(&stubDetails{err: provider.ErrPropertyNotFound})

	w := getProperty(router, "nope")

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestPropertyDetailsProviderDown(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"server error", fmt.Errorf("provider returned status 500")},
		{"breaker open", fmt.Errorf("circuit breaker is open")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newPropertyRouter(&stubDetails{err: tt.err})

			w := getProperty(router, "55501")

			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		})
	}
}

func TestPropertyDetailsUnusablePayload(t *testing.T) {
	router := newPropertyRouter(&stubDetails{
		raw: models.RawListing{Data: map[string]interface{}{"unexpected": true}},
	})

	w := getProperty(router, "55501")

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
