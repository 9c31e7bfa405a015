package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPackageGenerated(t *testing.T) {
	before := testutil.ToFloat64(packagesGenerated.WithLabelValues("premium"))
	RecordPackageGenerated("premium")
	assert.Equal(t, before+1, testutil.ToFloat64(packagesGenerated.WithLabelValues("premium")))
}

func TestGinMiddleware_CountsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinMiddleware())
	router.GET("/api/zones/:postcode", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/zones/:postcode", "200"))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/zones/6000", nil))
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/zones/:postcode", "200"))

	assert.Equal(t, before+1, after)
}

func TestHandler_ServesRegistry(t *testing.T) {
	RecordPackageFailure()
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "solarhub_packages_generation_failures_total")
}
