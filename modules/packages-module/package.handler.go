package packages_module

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"solarhub/commons/response"
	"solarhub/database/entities"
)

type Handler struct {
	packages  *PackageService
	quotes    *QuoteService
	templates *TemplateService
}

func NewHandler(packages *PackageService, quotes *QuoteService, templates *TemplateService) *Handler {
	return &Handler{packages: packages, quotes: quotes, templates: templates}
}

func (h *Handler) RegisterRoutes(api, admin *gin.RouterGroup) {
	quotes := api.Group("/quotes")
	quotes.POST("", h.CreateQuote)
	quotes.POST("/generate-packages", h.GeneratePackages)
	quotes.GET("/:sessionId", h.GetQuote)
	quotes.PUT("/:sessionId", h.UpdateQuote)
	quotes.POST("/:sessionId/roof-analysis", h.RecordRoofAnalysis)

	templates := admin.Group("/package-templates")
	templates.GET("", h.ListTemplates)
	templates.POST("", h.CreateTemplate)
	templates.GET("/:id", h.GetTemplate)
	templates.PUT("/:id", h.UpdateTemplate)
	templates.DELETE("/:id", h.DeactivateTemplate)
}

type generateRequest struct {
	SessionID string `json:"sessionId"`
}

func (h *Handler) GeneratePackages(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	res, err := h.packages.Generate(c.Request.Context(), req.SessionID)
	if err != nil {
		response.Fail(c, err, "Failed to generate packages")
		return
	}
	response.JSON(c, http.StatusOK, res)
}

func (h *Handler) CreateQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	q, err := h.quotes.Create(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err, "Failed to create quote")
		return
	}
	response.JSON(c, http.StatusCreated, q)
}

func (h *Handler) GetQuote(c *gin.Context) {
	q, err := h.quotes.Get(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		response.Fail(c, err, "Failed to load quote")
		return
	}
	response.JSON(c, http.StatusOK, q)
}

func (h *Handler) UpdateQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	q, err := h.quotes.Update(c.Request.Context(), c.Param("sessionId"), req)
	if err != nil {
		response.Fail(c, err, "Failed to update quote")
		return
	}
	response.JSON(c, http.StatusOK, q)
}

func (h *Handler) RecordRoofAnalysis(c *gin.Context) {
	var req RoofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	roof, err := h.quotes.RecordRoofAnalysis(c.Request.Context(), c.Param("sessionId"), req)
	if err != nil {
		response.Fail(c, err, "Failed to save roof analysis")
		return
	}
	response.JSON(c, http.StatusCreated, roof)
}

func (h *Handler) ListTemplates(c *gin.Context) {
	all, _ := strconv.ParseBool(c.Query("all"))
	templates, err := h.templates.List(c.Request.Context(), all)
	if err != nil {
		response.Fail(c, err, "Failed to load templates")
		return
	}
	response.JSON(c, http.StatusOK, templates)
}

func templateID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, "Invalid template id")
		return 0, false
	}
	return uint(id), true
}

// templateFail reports validation failures field by field and everything else through Fail.
func templateFail(c *gin.Context, err error, fallback string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		response.ValidationError(c, err)
		return
	}
	response.Fail(c, err, fallback)
}

func (h *Handler) GetTemplate(c *gin.Context) {
	id, ok := templateID(c)
	if !ok {
		return
	}
	t, err := h.templates.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err, "Failed to load template")
		return
	}
	response.JSON(c, http.StatusOK, t)
}

func (h *Handler) CreateTemplate(c *gin.Context) {
	var in entities.SystemPackageTemplate
	if err := c.ShouldBindJSON(&in); err != nil {
		response.ValidationError(c, err)
		return
	}
	t, err := h.templates.Create(c.Request.Context(), in)
	if err != nil {
		templateFail(c, err, "Failed to create template")
		return
	}
	response.JSON(c, http.StatusCreated, t)
}

func (h *Handler) UpdateTemplate(c *gin.Context) {
	id, ok := templateID(c)
	if !ok {
		return
	}
	var in entities.SystemPackageTemplate
	if err := c.ShouldBindJSON(&in); err != nil {
		response.ValidationError(c, err)
		return
	}
	t, err := h.templates.Update(c.Request.Context(), id, in)
	if err != nil {
		templateFail(c, err, "Failed to update template")
		return
	}
	response.JSON(c, http.StatusOK, t)
}

func (h *Handler) DeactivateTemplate(c *gin.Context) {
	id, ok := templateID(c)
	if !ok {
		return
	}
	if err := h.templates.Deactivate(c.Request.Context(), id); err != nil {
		response.Fail(c, err, "Failed to deactivate template")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true})
}
