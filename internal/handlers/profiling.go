package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenpoint-esg/esg-backend/internal/services"
)

type ProfilingHandler struct {
	companyService   services.CompanyService
	profilingService services.ProfilingService
	checklistService services.ChecklistService
}

func NewProfilingHandler(
	companyService services.CompanyService,
	profilingService services.ProfilingService,
	checklistService services.ChecklistService,
) *ProfilingHandler {
	return &ProfilingHandler{
		companyService:   companyService,
		profilingService: profilingService,
		checklistService: checklistService,
	}
}

func (ph *ProfilingHandler) Questions(c *gin.Context) {
	company, ok := loadCompany(c, ph.companyService)
	if !ok {
		return
	}
	questions, err := ph.profilingService.QuestionsFor(c.Request.Context(), company)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "questions_failed", err)
		return
	}
	RespondOK(c, gin.H{"questions": questions})
}

// SubmitAnswers records the answers and regenerates the checklist in the
// same request, so the caller immediately sees the effect.
func (ph *ProfilingHandler) SubmitAnswers(c *gin.Context) {
	company, ok := loadCompany(c, ph.companyService)
	if !ok {
		return
	}
	var body struct {
		Answers map[string]bool `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := ph.profilingService.RecordAnswers(c.Request.Context(), company, body.Answers); err != nil {
		RespondError(c, http.StatusBadRequest, "answers_failed", err)
		return
	}
	items, err := ph.checklistService.Generate(c.Request.Context(), company)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "checklist_failed", err)
		return
	}
	RespondOK(c, gin.H{"checklist_size": len(items)})
}
