package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/greenpoint-esg/esg-backend/internal/repos"
	"github.com/greenpoint-esg/esg-backend/internal/services"
)

type MeterHandler struct {
	companyService services.CompanyService
	meterService   services.MeterService
}

func NewMeterHandler(companyService services.CompanyService, meterService services.MeterService) *MeterHandler {
	return &MeterHandler{companyService: companyService, meterService: meterService}
}

func parseMeterID(c *gin.Context) (uuid.UUID, bool) {
	meterID, err := uuid.Parse(c.Param("meterID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_meter_id", err)
		return uuid.Nil, false
	}
	return meterID, true
}

func (mh *MeterHandler) List(c *gin.Context) {
	company, ok := loadCompany(c, mh.companyService)
	if !ok {
		return
	}
	meters, err := mh.meterService.List(c.Request.Context(), company)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"meters": meters})
}

func (mh *MeterHandler) Create(c *gin.Context) {
	company, ok := loadCompany(c, mh.companyService)
	if !ok {
		return
	}
	var input services.MeterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if input.Type == "" {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("type is required"))
		return
	}
	meter, err := mh.meterService.Create(c.Request.Context(), company, input)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_failed", err)
		return
	}
	RespondCreated(c, gin.H{"meter": meter})
}

func (mh *MeterHandler) Update(c *gin.Context) {
	company, ok := loadCompany(c, mh.companyService)
	if !ok {
		return
	}
	meterID, ok := parseMeterID(c)
	if !ok {
		return
	}
	var body struct {
		Name                *string `json:"name"`
		AccountNumber       *string `json:"account_number"`
		LocationDescription *string `json:"location_description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	fields := map[string]any{}
	if body.Name != nil {
		fields["name"] = *body.Name
	}
	if body.AccountNumber != nil {
		fields["account_number"] = *body.AccountNumber
	}
	if body.LocationDescription != nil {
		fields["location_description"] = *body.LocationDescription
	}
	meter, err := mh.meterService.Update(c.Request.Context(), company, meterID, fields)
	if err != nil {
		respondMeterError(c, err)
		return
	}
	RespondOK(c, gin.H{"meter": meter})
}

func (mh *MeterHandler) Deactivate(c *gin.Context) {
	company, ok := loadCompany(c, mh.companyService)
	if !ok {
		return
	}
	meterID, ok := parseMeterID(c)
	if !ok {
		return
	}
	if err := mh.meterService.Deactivate(c.Request.Context(), company, meterID); err != nil {
		respondMeterError(c, err)
		return
	}
	RespondOK(c, gin.H{"deactivated": true})
}

func (mh *MeterHandler) Delete(c *gin.Context) {
	company, ok := loadCompany(c, mh.companyService)
	if !ok {
		return
	}
	meterID, ok := parseMeterID(c)
	if !ok {
		return
	}
	if err := mh.meterService.Delete(c.Request.Context(), company, meterID); err != nil {
		respondMeterError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

func respondMeterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repos.ErrNotFound):
		RespondError(c, http.StatusNotFound, "meter_not_found", err)
	case errors.Is(err, services.ErrMeterNotOwned):
		RespondError(c, http.StatusForbidden, "meter_not_owned", err)
	case errors.Is(err, services.ErrMeterHasData):
		RespondError(c, http.StatusConflict, "meter_has_data", err)
	default:
		RespondError(c, http.StatusInternalServerError, "meter_failed", err)
	}
}
