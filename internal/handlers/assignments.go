package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/greenpoint-esg/esg-backend/internal/repos"
	"github.com/greenpoint-esg/esg-backend/internal/requestdata"
	"github.com/greenpoint-esg/esg-backend/internal/services"
)

type AssignmentHandler struct {
	companyService    services.CompanyService
	assignmentService services.AssignmentService
}

func NewAssignmentHandler(companyService services.CompanyService, assignmentService services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{companyService: companyService, assignmentService: assignmentService}
}

func (ah *AssignmentHandler) List(c *gin.Context) {
	company, ok := loadCompany(c, ah.companyService)
	if !ok {
		return
	}
	rules, err := ah.assignmentService.ListRules(c.Request.Context(), company)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"rules": rules})
}

func (ah *AssignmentHandler) Create(c *gin.Context) {
	company, ok := loadCompany(c, ah.companyService)
	if !ok {
		return
	}
	var body struct {
		ElementID  string    `json:"element_id"`
		Category   string    `json:"category"`
		AssigneeID uuid.UUID `json:"assignee_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}
	rule, err := ah.assignmentService.CreateRule(c.Request.Context(), company, body.ElementID, body.Category, body.AssigneeID, rd.UserID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRuleScope) {
			RespondError(c, http.StatusBadRequest, "invalid_scope", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "create_failed", err)
		return
	}
	RespondCreated(c, gin.H{"rule": rule})
}

func (ah *AssignmentHandler) Delete(c *gin.Context) {
	company, ok := loadCompany(c, ah.companyService)
	if !ok {
		return
	}
	ruleID, err := uuid.Parse(c.Param("ruleID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_rule_id", err)
		return
	}
	if err := ah.assignmentService.DeleteRule(c.Request.Context(), company, ruleID); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "rule_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
