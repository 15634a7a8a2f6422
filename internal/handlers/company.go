package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/greenpoint-esg/esg-backend/internal/repos"
	"github.com/greenpoint-esg/esg-backend/internal/services"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

type CompanyHandler struct {
	companyService   services.CompanyService
	frameworkService services.FrameworkService
}

func NewCompanyHandler(companyService services.CompanyService, frameworkService services.FrameworkService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService, frameworkService: frameworkService}
}

// loadCompany resolves the :companyID path param. It writes the error
// response itself; callers just return on !ok.
func loadCompany(c *gin.Context, companyService services.CompanyService) (*types.Company, bool) {
	companyID, err := uuid.Parse(c.Param("companyID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_company_id", err)
		return nil, false
	}
	company, err := companyService.Get(c.Request.Context(), companyID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "company_not_found", err)
			return nil, false
		}
		RespondError(c, http.StatusInternalServerError, "company_lookup_failed", err)
		return nil, false
	}
	return company, true
}

func (ch *CompanyHandler) Onboard(c *gin.Context) {
	var input services.CompanyProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	company, err := ch.companyService.Onboard(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrCompanyProfileIncomplete) {
			RespondError(c, http.StatusBadRequest, "profile_incomplete", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "onboard_failed", err)
		return
	}
	RespondCreated(c, gin.H{"company": company})
}

func (ch *CompanyHandler) Get(c *gin.Context) {
	company, ok := loadCompany(c, ch.companyService)
	if !ok {
		return
	}
	RespondOK(c, gin.H{"company": company})
}

func (ch *CompanyHandler) UpdateProfile(c *gin.Context) {
	company, ok := loadCompany(c, ch.companyService)
	if !ok {
		return
	}
	var input services.CompanyProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	updated, err := ch.companyService.UpdateProfile(c.Request.Context(), company.ID, input)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "update_failed", err)
		return
	}
	RespondOK(c, gin.H{"company": updated})
}

func (ch *CompanyHandler) Delete(c *gin.Context) {
	company, ok := loadCompany(c, ch.companyService)
	if !ok {
		return
	}
	if err := ch.companyService.Delete(c.Request.Context(), company.ID); err != nil {
		RespondError(c, http.StatusInternalServerError, "delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

func (ch *CompanyHandler) Frameworks(c *gin.Context) {
	company, ok := loadCompany(c, ch.companyService)
	if !ok {
		return
	}
	codes, err := ch.frameworkService.RecomputeActive(c.Request.Context(), nil, company)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "resolve_failed", err)
		return
	}
	RespondOK(c, gin.H{"active_frameworks": codes})
}

func (ch *CompanyHandler) ListVoluntaryFrameworks(c *gin.Context) {
	frameworks, err := ch.frameworkService.ListVoluntary(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"frameworks": frameworks})
}

func (ch *CompanyHandler) AdoptVoluntary(c *gin.Context) {
	company, ok := loadCompany(c, ch.companyService)
	if !ok {
		return
	}
	var body struct {
		FrameworkCode string `json:"framework_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := ch.frameworkService.AdoptVoluntary(c.Request.Context(), company, body.FrameworkCode); err != nil {
		if errors.Is(err, services.ErrUnknownFramework) {
			RespondError(c, http.StatusNotFound, "unknown_framework", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "adopt_failed", err)
		return
	}
	RespondOK(c, gin.H{"active_frameworks": company.ActiveFrameworkCodes()})
}

func (ch *CompanyHandler) ListSites(c *gin.Context) {
	company, ok := loadCompany(c, ch.companyService)
	if !ok {
		return
	}
	sites, err := ch.companyService.ListSites(c.Request.Context(), company.ID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"sites": sites})
}

func (ch *CompanyHandler) AddSite(c *gin.Context) {
	company, ok := loadCompany(c, ch.companyService)
	if !ok {
		return
	}
	var body struct {
		Name     string `json:"name" binding:"required"`
		Location string `json:"location"`
		Address  string `json:"address"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	site, err := ch.companyService.AddSite(c.Request.Context(), company.ID, body.Name, body.Location, body.Address)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_failed", err)
		return
	}
	RespondCreated(c, gin.H{"site": site})
}
