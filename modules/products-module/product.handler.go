package products_module

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"solarhub/commons/numbers"
	"solarhub/commons/response"
)

type Handler struct {
	products *ProductService
}

func NewHandler(products *ProductService) *Handler {
	return &Handler{products: products}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.List)
	rg.GET("/products/:id/cost", h.Cost)
}

type listQuery struct {
	Type      string `form:"type" binding:"required,oneof=PANEL BATTERY INVERTER panel battery inverter"`
	Tier      string `form:"tier" binding:"omitempty,oneof=budget mid premium"`
	Available *bool  `form:"available"`
}

func (h *Handler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationError(c, err)
		return
	}
	f := Filter{AvailableOnly: q.Available == nil || *q.Available, Tier: q.Tier}
	items, err := h.products.Catalog(c.Request.Context(), strings.ToUpper(q.Type), f)
	if err != nil {
		response.Fail(c, err, "Failed to load products")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"products": items})
}

type laborLineResponse struct {
	LaborType string  `json:"laborType"`
	LaborCode string  `json:"laborCode"`
	Units     float64 `json:"units"`
	Cost      float64 `json:"cost"`
}

type costResponse struct {
	ProductID        uint                `json:"productId"`
	Name             string              `json:"name"`
	UnitPrice        float64             `json:"unitPrice"`
	Quantity         float64             `json:"quantity"`
	ProductCost      float64             `json:"productCost"`
	InstallationCost float64             `json:"installationCost"`
	TotalCost        float64             `json:"totalCost"`
	Labor            []laborLineResponse `json:"installationBreakdown"`
}

func (h *Handler) Cost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product ID")
		return
	}
	qty := 1.0
	if raw := c.Query("quantity"); raw != "" {
		qty, err = strconv.ParseFloat(raw, 64)
		if err != nil || qty <= 0 {
			response.Error(c, http.StatusBadRequest, "Quantity must be a positive number")
			return
		}
	}

	item, cost, err := h.products.CalculateCost(c.Request.Context(), uint(id), qty)
	if errors.Is(err, ErrNoActiveSupplier) {
		response.Error(c, http.StatusUnprocessableEntity, "No active supplier found for product: "+item.Name)
		return
	}
	if err != nil {
		response.Fail(c, err, "Failed to calculate product cost")
		return
	}

	labor := make([]laborLineResponse, len(cost.Labor))
	for i, l := range cost.Labor {
		labor[i] = laborLineResponse{LaborType: l.LaborType, LaborCode: l.LaborCode, Units: l.Units, Cost: l.Cost.InexactFloat64()}
	}
	response.JSON(c, http.StatusOK, costResponse{
		ProductID:        item.ID,
		Name:             item.Name,
		UnitPrice:        cost.UnitPrice.InexactFloat64(),
		Quantity:         qty,
		ProductCost:      numbers.Dollars(cost.Product),
		InstallationCost: numbers.Dollars(cost.Installation),
		TotalCost:        numbers.Dollars(cost.Total()),
		Labor:            labor,
	})
}
