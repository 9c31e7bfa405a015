package rebates_module

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"solarhub/commons/response"
	"solarhub/database"
)

type Handler struct {
	db      *gorm.DB
	zones   *ZoneService
	rebates *RebateService
}

func NewHandler(db *gorm.DB, zones *ZoneService, rebates *RebateService) *Handler {
	return &Handler{db: db, zones: zones, rebates: rebates}
}

func (h *Handler) RegisterRoutes(api, admin *gin.RouterGroup) {
	api.POST("/rebates/calculate", h.Calculate)
	api.GET("/zones", h.ListZones)
	api.GET("/zones/:postcode", h.Zone)
	admin.POST("/zones/seed", h.SeedZones)
}

func (h *Handler) Calculate(c *gin.Context) {
	var req RebateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	result, err := h.rebates.Calculate(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err, "Failed to calculate rebates")
		return
	}
	response.JSON(c, http.StatusOK, result.Summary())
}

func (h *Handler) Zone(c *gin.Context) {
	zone, err := h.zones.ByPostcode(c.Request.Context(), c.Param("postcode"))
	if errors.Is(err, ErrInvalidPostcode) {
		response.Error(c, http.StatusBadRequest, "Invalid postcode")
		return
	}
	if err != nil {
		response.Fail(c, err, "Failed to look up zone rating")
		return
	}
	response.JSON(c, http.StatusOK, zone)
}

func (h *Handler) ListZones(c *gin.Context) {
	rows, err := h.zones.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err, "Failed to list zone ratings")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"zoneRatings": rows})
}

func (h *Handler) SeedZones(c *gin.Context) {
	n, err := database.SeedZoneRatings(h.db.WithContext(c.Request.Context()))
	if err != nil {
		response.Fail(c, err, "Failed to seed zone ratings")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true, "count": n})
}
