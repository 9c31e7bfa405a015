package products_module

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(f fixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewProductService(f.db)).RegisterRoutes(r.Group("/api"))
	return r
}

func TestHandler_List(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products?type=battery", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Products []CatalogItem `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Products, 1)
	assert.Equal(t, "Powerwall 3", body.Products[0].Name)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products?type=roof", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Cost(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/products/%d/cost?quantity=10", f.panel.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body costResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2500.0, body.ProductCost)
	assert.Equal(t, 350.0, body.InstallationCost)
	assert.Equal(t, 2850.0, body.TotalCost)
}

func TestHandler_CostErrors(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f)

	tests := []struct {
		path string
		code int
	}{
		{fmt.Sprintf("/api/products/%d/cost", f.orphan.ID), http.StatusUnprocessableEntity},
		{"/api/products/9999/cost", http.StatusNotFound},
		{"/api/products/abc/cost", http.StatusBadRequest},
		{fmt.Sprintf("/api/products/%d/cost?quantity=-2", f.panel.ID), http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.code, w.Code, tt.path)
	}
}
