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

type SubmissionHandler struct {
	companyService    services.CompanyService
	submissionService services.SubmissionService
}

func NewSubmissionHandler(companyService services.CompanyService, submissionService services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{companyService: companyService, submissionService: submissionService}
}

func parseSubmissionID(c *gin.Context) (uuid.UUID, bool) {
	submissionID, err := uuid.Parse(c.Param("submissionID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_submission_id", err)
		return uuid.Nil, false
	}
	return submissionID, true
}

func (sh *SubmissionHandler) Update(c *gin.Context) {
	company, ok := loadCompany(c, sh.companyService)
	if !ok {
		return
	}
	submissionID, ok := parseSubmissionID(c)
	if !ok {
		return
	}
	var update services.SubmissionUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	submission, err := sh.submissionService.Update(c.Request.Context(), company, submissionID, update)
	if err != nil {
		respondSubmissionError(c, err)
		return
	}
	RespondOK(c, gin.H{"submission": submission, "status": submission.Status()})
}

func (sh *SubmissionHandler) MarkPeriodInactive(c *gin.Context) {
	company, ok := loadCompany(c, sh.companyService)
	if !ok {
		return
	}
	submissionID, ok := parseSubmissionID(c)
	if !ok {
		return
	}
	submission, err := sh.submissionService.MarkPeriodInactive(c.Request.Context(), company, submissionID)
	if err != nil {
		respondSubmissionError(c, err)
		return
	}
	RespondOK(c, gin.H{"submission": submission, "status": submission.Status()})
}

func (sh *SubmissionHandler) Assign(c *gin.Context) {
	company, ok := loadCompany(c, sh.companyService)
	if !ok {
		return
	}
	submissionID, ok := parseSubmissionID(c)
	if !ok {
		return
	}
	var body struct {
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
	submission, err := sh.submissionService.Assign(c.Request.Context(), company, submissionID, body.AssigneeID, rd.UserID)
	if err != nil {
		respondSubmissionError(c, err)
		return
	}
	RespondOK(c, gin.H{"submission": submission})
}

func respondSubmissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repos.ErrNotFound):
		RespondError(c, http.StatusNotFound, "submission_not_found", err)
	case errors.Is(err, services.ErrSubmissionNotOwned):
		RespondError(c, http.StatusForbidden, "submission_not_owned", err)
	default:
		RespondError(c, http.StatusInternalServerError, "submission_failed", err)
	}
}
