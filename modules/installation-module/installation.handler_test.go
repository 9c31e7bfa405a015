package installation_module

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarhub/database/dbtest"
)

func TestHandler_Estimate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(seededService(t)).RegisterRoutes(r.Group("/api"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/installation/estimate",
		strings.NewReader(`{"systemSizeKw":6.6,"panelCount":15,"roofType":"metal"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var b Breakdown
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.Equal(t, 1930.0, b.TotalInstallationCost)
}

func TestHandler_EstimateValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(seededService(t)).RegisterRoutes(r.Group("/api"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/installation/estimate", strings.NewReader(`{"systemSizeKw":6.6,"roofType":"thatch"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_PricingNotConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewInstallationService(dbtest.New(t), "WA")).RegisterRoutes(r.Group("/api"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/installation/pricing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Installation pricing not configured"}`, w.Body.String())
}
