package energy_module

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"solarhub/commons/response"
)

type Handler struct {
	consumption *ConsumptionService
	timeOfUse   *TimeOfUseService
}

func NewHandler(consumption *ConsumptionService, timeOfUse *TimeOfUseService) *Handler {
	return &Handler{consumption: consumption, timeOfUse: timeOfUse}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	energy := rg.Group("/energy")
	energy.POST("/consumption", h.Estimate)
	energy.GET("/time-of-use", h.TimeOfUse)
}

// Estimate returns the consumption estimate together with the recommended system size.
func (h *Handler) Estimate(c *gin.Context) {
	var in ConsumptionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.ValidationError(c, err)
		return
	}
	result, err := h.consumption.DetailedBreakdown(c.Request.Context(), in)
	if err != nil {
		response.Fail(c, err, "Failed to calculate consumption")
		return
	}
	response.JSON(c, http.StatusOK, result)
}

func (h *Handler) TimeOfUse(c *gin.Context) {
	p, err := h.timeOfUse.GetPattern(c.Request.Context())
	if err != nil {
		response.Fail(c, err, "Failed to load time of use pattern")
		return
	}
	response.JSON(c, http.StatusOK, p)
}
