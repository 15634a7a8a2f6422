package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/greenpoint-esg/esg-backend/internal/services"
)

type TaskHandler struct {
	companyService services.CompanyService
	taskService    services.TaskService
}

func NewTaskHandler(companyService services.CompanyService, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{companyService: companyService, taskService: taskService}
}

// parseYearMonth reads the required year and month query params.
func parseYearMonth(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_year", err)
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		RespondError(c, http.StatusBadRequest, "invalid_month", err)
		return 0, 0, false
	}
	return year, month, true
}

func (th *TaskHandler) List(c *gin.Context) {
	company, ok := loadCompany(c, th.companyService)
	if !ok {
		return
	}
	year, month, ok := parseYearMonth(c)
	if !ok {
		return
	}
	tasks, err := th.taskService.Materialize(c.Request.Context(), company, year, month)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "tasks_failed", err)
		return
	}
	RespondOK(c, gin.H{"tasks": tasks, "year": year, "month": month})
}

func (th *TaskHandler) AvailableMonths(c *gin.Context) {
	if _, ok := loadCompany(c, th.companyService); !ok {
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_year", err)
		return
	}
	RespondOK(c, gin.H{"year": year, "months": th.taskService.AvailableMonths(year)})
}
