package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/gabzinnn/av-continua-sub001/internal/service"
	"github.com/gabzinnn/av-continua-sub001/pkg/response"
)

// RosterHandler read-only roster endpoints.
type RosterHandler struct {
	rosterSvc service.RosterService
}

// NewRosterHandler creates the RosterHandler.
func NewRosterHandler(rosterSvc service.RosterService) *RosterHandler {
	return &RosterHandler{rosterSvc: rosterSvc}
}

// ListMembros lists members; pass todos=true to include inactive ones.
// GET /api/v1/membros
func (h *RosterHandler) ListMembros(c *gin.Context) {
	somenteAtivos := c.Query("todos") != "true"

	membros, err := h.rosterSvc.ListMembros(c.Request.Context(), somenteAtivos)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": membros})
}

// ListAreas lists areas in canonical order.
// GET /api/v1/areas
func (h *RosterHandler) ListAreas(c *gin.Context) {
	areas, err := h.rosterSvc.ListAreas(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": areas})
}
