package rebates_module

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

func newRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	db := dbtest.New(t)
	zones := NewZoneService(db)
	r := gin.New()
	NewHandler(db, zones, NewRebateService(db, zones, "WA")).RegisterRoutes(r.Group("/api"), r.Group("/api/admin"))
	return r
}

func TestHandler_SeedThenLookup(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/zones/seed", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"count":37}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/zones/6850", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var z ZoneRating
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &z))
	assert.Equal(t, 1, z.Zone)
	assert.False(t, z.Fallback)
}

func TestHandler_ZoneInvalidPostcode(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/zones/perth", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid postcode"}`, w.Body.String())
}

func TestHandler_Calculate(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rebates/calculate", strings.NewReader(`{"systemKw":6.6,"batteryKwh":13.5,"postcode":"6000"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var summary RebateSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1900.0, summary.FederalSolar)
	assert.Equal(t, 8405.0, summary.Total)
	assert.True(t, summary.Zone.Fallback)
}

func TestHandler_CalculateRejectsNegativeSize(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rebates/calculate", strings.NewReader(`{"systemKw":-1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
