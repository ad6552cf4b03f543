package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/claireundgeorge/accessible-site/internal/http/response"
	"github.com/claireundgeorge/accessible-site/internal/services"
)

type SiteHandler struct {
	site services.SiteService
}

func NewSiteHandler(site services.SiteService) *SiteHandler {
	return &SiteHandler{site: site}
}

// GET /api/site/home
func (h *SiteHandler) Home(c *gin.Context) {
	id, ok := visitorID(c)
	if !ok {
		return
	}
	response.RespondOK(c, h.site.Home(c.Request.Context(), id))
}

// GET /api/site/hotels
func (h *SiteHandler) Hotels(c *gin.Context) {
	id, ok := visitorID(c)
	if !ok {
		return
	}
	response.RespondOK(c, h.site.Hotels(c.Request.Context(), id))
}

// GET /api/site/tours
func (h *SiteHandler) Tours(c *gin.Context) {
	id, ok := visitorID(c)
	if !ok {
		return
	}
	response.RespondOK(c, h.site.Tours(c.Request.Context(), id))
}

// GET /api/site/care-services
func (h *SiteHandler) CareServices(c *gin.Context) {
	id, ok := visitorID(c)
	if !ok {
		return
	}
	response.RespondOK(c, h.site.CareServices(c.Request.Context(), id))
}
