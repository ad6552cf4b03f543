package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/claireundgeorge/accessible-site/internal/clients/cms"
	"github.com/claireundgeorge/accessible-site/internal/http/response"
	"github.com/claireundgeorge/accessible-site/internal/services"
)

type CMSHandler struct {
	cms services.CMSService
}

func NewCMSHandler(cmsService services.CMSService) *CMSHandler {
	return &CMSHandler{cms: cmsService}
}

// GET /api/cms/dashboard
func (h *CMSHandler) Dashboard(c *gin.Context) {
	out, err := h.cms.Dashboard(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/cms/categories
func (h *CMSHandler) Categories(c *gin.Context) {
	response.RespondOK(c, h.cms.Categories(c.Request.Context()))
}

// GET /api/cms/content-models
func (h *CMSHandler) ContentModels(c *gin.Context) {
	models, err := h.cms.ContentModels(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"content_models": models})
}

// List serves GET /api/cms/{hotels|tours|care-services}.
func (h *CMSHandler) List(t cms.ContentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := h.cms.List(c.Request.Context(), t)
		if err != nil {
			response.RespondErr(c, err)
			return
		}
		response.RespondOK(c, gin.H{"items": rows})
	}
}

// Get serves GET /api/cms/{type}/:id. The optional ?category= selects the
// adapted variant.
func (h *CMSHandler) Get(t cms.ContentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := contentID(c)
		if !ok {
			return
		}
		item, err := h.cms.Get(c.Request.Context(), t, id, c.Query("category"))
		if err != nil {
			response.RespondErr(c, err)
			return
		}
		response.RespondOK(c, gin.H{"item": item})
	}
}

// POST /api/cms/hotels
func (h *CMSHandler) CreateHotel(c *gin.Context) {
	var req cms.HotelContent
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	id, err := h.cms.CreateHotel(c.Request.Context(), req)
	respondCreated(c, id, err)
}

// POST /api/cms/tours
func (h *CMSHandler) CreateTour(c *gin.Context) {
	var req cms.TourContent
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	id, err := h.cms.CreateTour(c.Request.Context(), req)
	respondCreated(c, id, err)
}

// POST /api/cms/care-services
func (h *CMSHandler) CreateCareService(c *gin.Context) {
	var req cms.CareServiceContent
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	id, err := h.cms.CreateCareService(c.Request.Context(), req)
	respondCreated(c, id, err)
}

// POST /api/cms/validate/:type
func (h *CMSHandler) Validate(c *gin.Context) {
	t, ok := contentType(c)
	if !ok {
		return
	}
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.cms.Validate(c.Request.Context(), t, body)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/cms/regenerate/:type/:id
func (h *CMSHandler) Regenerate(c *gin.Context) {
	t, ok := contentType(c)
	if !ok {
		return
	}
	id, ok := contentID(c)
	if !ok {
		return
	}
	var req struct {
		Category string `json:"category" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.cms.Regenerate(c.Request.Context(), t, id, req.Category)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

func respondCreated(c *gin.Context, id int64, err error) {
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func contentType(c *gin.Context) (cms.ContentType, bool) {
	t, ok := cms.ParseContentType(c.Param("type"))
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_content_type", fmt.Errorf("unknown content type %q", c.Param("type")))
		return "", false
	}
	return t, true
}

func contentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid id %q", c.Param("id")))
		return 0, false
	}
	return id, true
}
