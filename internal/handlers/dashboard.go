package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/greenpoint-esg/esg-backend/internal/services"
)

type DashboardHandler struct {
	companyService   services.CompanyService
	dashboardService services.DashboardService
}

func NewDashboardHandler(companyService services.CompanyService, dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{companyService: companyService, dashboardService: dashboardService}
}

func (dh *DashboardHandler) Stats(c *gin.Context) {
	company, ok := loadCompany(c, dh.companyService)
	if !ok {
		return
	}
	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_year", err)
			return
		}
		year = parsed
	}
	refresh := c.Query("refresh") == "true"
	stats, err := dh.dashboardService.Stats(c.Request.Context(), company, year, refresh)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "dashboard_failed", err)
		return
	}
	RespondOK(c, gin.H{"dashboard": stats})
}
