package leads_module

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"solarhub/commons/response"
)

type Handler struct {
	leads *LeadService
	files *LeadFileService
}

func NewHandler(leads *LeadService, files *LeadFileService) *Handler {
	return &Handler{leads: leads, files: files}
}

func (h *Handler) RegisterRoutes(api, admin *gin.RouterGroup) {
	api.POST("/leads", h.Capture)

	admin.GET("/leads", h.List)
	files := admin.Group("/lead-files")
	files.GET("", h.ListFiles)
	files.POST("", h.RegisterFile)
	files.GET("/:id", h.GetFile)
	files.POST("/:id/import", h.ImportFile)
	files.GET("/:id/duplicates", h.Duplicates)
}

func (h *Handler) Capture(c *gin.Context) {
	var req CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	lead, err := h.leads.Capture(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err, "Failed to save lead")
		return
	}
	response.JSON(c, http.StatusCreated, lead)
}

func (h *Handler) List(c *gin.Context) {
	leads, err := h.leads.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Fail(c, err, "Failed to load leads")
		return
	}
	response.JSON(c, http.StatusOK, leads)
}

func fileID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, "Invalid lead file id")
		return 0, false
	}
	return uint(id), true
}

type registerRequest struct {
	FileName string `json:"fileName" binding:"required"`
}

func (h *Handler) RegisterFile(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	file, err := h.files.Register(c.Request.Context(), req.FileName)
	if err != nil {
		response.Fail(c, err, "Failed to register lead file")
		return
	}
	response.JSON(c, http.StatusCreated, file)
}

func (h *Handler) ListFiles(c *gin.Context) {
	files, err := h.files.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err, "Failed to load lead files")
		return
	}
	response.JSON(c, http.StatusOK, files)
}

func (h *Handler) GetFile(c *gin.Context) {
	id, ok := fileID(c)
	if !ok {
		return
	}
	file, err := h.files.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err, "Failed to load lead file")
		return
	}
	response.JSON(c, http.StatusOK, file)
}

// ImportFile runs the import synchronously. A failed download or import still answers with
// the file history so the caller sees the recorded status and error.
func (h *Handler) ImportFile(c *gin.Context) {
	id, ok := fileID(c)
	if !ok {
		return
	}
	file, err := h.files.Import(c.Request.Context(), id)
	if err != nil && file.ID == 0 {
		response.Fail(c, err, "Failed to import lead file")
		return
	}
	if err != nil {
		status, _ := response.Classify(err, "")
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		_ = c.Error(err)
		response.JSON(c, status, gin.H{"error": err.Error(), "file": file})
		return
	}
	response.JSON(c, http.StatusOK, file)
}

func (h *Handler) Duplicates(c *gin.Context) {
	id, ok := fileID(c)
	if !ok {
		return
	}
	rows, err := h.files.Duplicates(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err, "Failed to load duplicates")
		return
	}
	response.JSON(c, http.StatusOK, rows)
}
