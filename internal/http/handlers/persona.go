package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/claireundgeorge/accessible-site/internal/http/response"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
	"github.com/claireundgeorge/accessible-site/internal/realtime"
	"github.com/claireundgeorge/accessible-site/internal/services"
)

type PersonaHandler struct {
	log      *logger.Logger
	personas services.PersonaService
	hub      *realtime.SSEHub
}

func NewPersonaHandler(log *logger.Logger, personas services.PersonaService, hub *realtime.SSEHub) *PersonaHandler {
	return &PersonaHandler{log: log.With("handler", "PersonaHandler"), personas: personas, hub: hub}
}

// GET /api/persona
func (h *PersonaHandler) GetState(c *gin.Context) {
	id, ok := visitorID(c)
	if !ok {
		return
	}
	response.RespondOK(c, h.personas.State(c.Request.Context(), id))
}

// GET /api/persona/categories
func (h *PersonaHandler) ListCategories(c *gin.Context) {
	response.RespondOK(c, gin.H{"categories": h.personas.Categories()})
}

// POST /api/persona/assessment
func (h *PersonaHandler) Answer(c *gin.Context) {
	id, ok := visitorID(c)
	if !ok {
		return
	}
	var req struct {
		NeedsSupport *bool `json:"needs_support" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	snap, err := h.personas.AnswerNeedsSupport(c.Request.Context(), id, *req.NeedsSupport)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, snap)
}

// POST /api/persona/back
func (h *PersonaHandler) Back(c *gin.Context) {
	id, ok := visitorID(c)
	if !ok {
		return
	}
	snap, err := h.personas.Back(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, snap)
}

// POST /api/persona/category
//
// A null category commits "no preference". The response returns at once;
// the commit lands after the transition and is announced on the stream.
func (h *PersonaHandler) SelectCategory(c *gin.Context) {
	id, ok := visitorID(c)
	if !ok {
		return
	}
	var req struct {
		Category *string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	raw := "null"
	if req.Category != nil {
		raw = *req.Category
	}
	snap, err := h.personas.SelectCategory(c.Request.Context(), id, raw)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusAccepted, snap)
}

// POST /api/persona/reset
func (h *PersonaHandler) Reset(c *gin.Context) {
	id, ok := visitorID(c)
	if !ok {
		return
	}
	snap, err := h.personas.Reset(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, snap)
}

// GET /api/persona/stream
func (h *PersonaHandler) Stream(c *gin.Context) {
	id, ok := visitorID(c)
	if !ok {
		return
	}
	if h.hub == nil {
		response.RespondError(c, http.StatusServiceUnavailable, "stream_unavailable", errNoHub)
		return
	}
	client := h.hub.NewSSEClient(id)
	client.Logger = h.log.With("sse_client_id", client.ID.String())
	channel := realtime.VisitorChannel(id)
	h.hub.AddChannel(client, channel)
	defer h.hub.CloseClient(client)

	// Subscribed first so no event between the snapshot and the stream is lost.
	select {
	case client.Outbound <- realtime.SSEMessage{
		Channel: channel,
		Event:   realtime.SSEEventPersonaState,
		Data:    h.personas.State(c.Request.Context(), id),
	}:
	default:
	}
	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
