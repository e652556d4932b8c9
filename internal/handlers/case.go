package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/overruled/mocktrial-backend/internal/apierr"
	"github.com/overruled/mocktrial-backend/internal/services"
)

type CaseHandler struct {
	svc services.CaseService
}

func NewCaseHandler(svc services.CaseService) *CaseHandler {
	return &CaseHandler{svc: svc}
}

// POST /api/cases
func (h *CaseHandler) CreateCase(c *gin.Context) {
	var input services.CreateCaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, apierr.Wrap(apierr.KindValidation, "invalid request body", err))
		return
	}

	kase, err := h.svc.CreateCase(c.Request.Context(), input)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"case": kase})
}

// GET /api/cases/:id
func (h *CaseHandler) GetCase(c *gin.Context) {
	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.New(apierr.KindValidation, "invalid case id"))
		return
	}

	kase, err := h.svc.GetCase(c.Request.Context(), caseID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"case": kase})
}
