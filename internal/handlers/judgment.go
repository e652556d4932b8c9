package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/overruled/mocktrial-backend/internal/apierr"
	"github.com/overruled/mocktrial-backend/internal/services"
)

type JudgmentHandler struct {
	svc services.VerdictService
}

func NewJudgmentHandler(svc services.VerdictService) *JudgmentHandler {
	return &JudgmentHandler{svc: svc}
}

// POST /api/cases/:id/judgment
func (h *JudgmentHandler) GenerateJudgment(c *gin.Context) {
	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.New(apierr.KindValidation, "invalid case id"))
		return
	}

	view, err := h.svc.GenerateJudgment(c.Request.Context(), caseID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"judgment": view})
}

// POST /api/cases/:id/verdict
func (h *JudgmentHandler) GenerateFinalVerdict(c *gin.Context) {
	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.New(apierr.KindValidation, "invalid case id"))
		return
	}

	view, err := h.svc.GenerateFinalVerdict(c.Request.Context(), caseID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"judgment": view})
}

// GET /api/cases/:id/judgments
func (h *JudgmentHandler) GetJudgments(c *gin.Context) {
	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.New(apierr.KindValidation, "invalid case id"))
		return
	}

	judgments, err := h.svc.GetJudgments(c.Request.Context(), caseID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"judgments": judgments})
}
