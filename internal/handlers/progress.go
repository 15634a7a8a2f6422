package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/greenpoint-esg/esg-backend/internal/services"
)

type ProgressHandler struct {
	companyService  services.CompanyService
	progressService services.ProgressService
}

func NewProgressHandler(companyService services.CompanyService, progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{companyService: companyService, progressService: progressService}
}

// Get reports completeness for ?year=YYYY, optionally narrowed by &month=M.
func (ph *ProgressHandler) Get(c *gin.Context) {
	company, ok := loadCompany(c, ph.companyService)
	if !ok {
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_year", err)
		return
	}
	var month *int
	if raw := c.Query("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			RespondError(c, http.StatusBadRequest, "invalid_month", err)
			return
		}
		month = &m
	}
	metrics, err := ph.progressService.Progress(c.Request.Context(), company, year, month)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "progress_failed", err)
		return
	}
	RespondOK(c, gin.H{"progress": metrics})
}
