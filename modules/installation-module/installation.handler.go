package installation_module

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"solarhub/commons/response"
)

type Handler struct {
	installation *InstallationService
}

func NewHandler(installation *InstallationService) *Handler {
	return &Handler{installation: installation}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/installation/pricing", h.Pricing)
	rg.POST("/installation/estimate", h.Estimate)
}

func (h *Handler) Pricing(c *gin.Context) {
	p, err := h.installation.Pricing(c.Request.Context())
	if err != nil {
		response.Fail(c, err, "Failed to load installation pricing")
		return
	}
	response.JSON(c, http.StatusOK, p)
}

func (h *Handler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	b, err := h.installation.Estimate(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err, "Failed to calculate installation cost")
		return
	}
	response.JSON(c, http.StatusOK, b)
}
