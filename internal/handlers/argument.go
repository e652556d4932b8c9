package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/overruled/mocktrial-backend/internal/apierr"
	"github.com/overruled/mocktrial-backend/internal/services"
)

type ArgumentHandler struct {
	svc services.VerdictService
}

func NewArgumentHandler(svc services.VerdictService) *ArgumentHandler {
	return &ArgumentHandler{svc: svc}
}

type submitArgumentRequest struct {
	Side         string `json:"side"`
	ArgumentText string `json:"argument_text"`
}

// POST /api/cases/:id/arguments
func (h *ArgumentHandler) SubmitArgument(c *gin.Context) {
	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.New(apierr.KindValidation, "invalid case id"))
		return
	}

	var req submitArgumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Wrap(apierr.KindValidation, "invalid request body", err))
		return
	}

	view, err := h.svc.SubmitArgument(c.Request.Context(), caseID, req.Side, req.ArgumentText)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"argument": view})
}

// GET /api/cases/:id/arguments
func (h *ArgumentHandler) GetArguments(c *gin.Context) {
	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.New(apierr.KindValidation, "invalid case id"))
		return
	}

	view, err := h.svc.GetArguments(c.Request.Context(), caseID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, view)
}
