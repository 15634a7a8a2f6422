package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenpoint-esg/esg-backend/internal/services"
)

type ChecklistHandler struct {
	companyService   services.CompanyService
	checklistService services.ChecklistService
}

func NewChecklistHandler(companyService services.CompanyService, checklistService services.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{companyService: companyService, checklistService: checklistService}
}

func (clh *ChecklistHandler) Get(c *gin.Context) {
	company, ok := loadCompany(c, clh.companyService)
	if !ok {
		return
	}
	entries, err := clh.checklistService.Describe(c.Request.Context(), company)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "checklist_failed", err)
		return
	}
	RespondOK(c, gin.H{"checklist": entries})
}

func (clh *ChecklistHandler) Regenerate(c *gin.Context) {
	company, ok := loadCompany(c, clh.companyService)
	if !ok {
		return
	}
	items, err := clh.checklistService.Generate(c.Request.Context(), company)
	if err != nil {
		if errors.Is(err, services.ErrCompanyProfileIncomplete) {
			RespondError(c, http.StatusBadRequest, "profile_incomplete", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "checklist_failed", err)
		return
	}
	RespondOK(c, gin.H{"checklist_size": len(items)})
}
