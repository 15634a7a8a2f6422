package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/repos"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

// ErrMeterHasData blocks deletion of meters with reported submissions.
// Deactivate instead; history stays queryable.
var ErrMeterHasData = errors.New("meter has submissions with data")

var ErrMeterNotOwned = errors.New("meter does not belong to company")

// MeterInput carries the caller-supplied fields of a new meter.
type MeterInput struct {
	Type                string `json:"type"`
	Name                string `json:"name"`
	AccountNumber       string `json:"account_number"`
	LocationDescription string `json:"location_description"`
}

type MeterService interface {
	Create(ctx context.Context, company *types.Company, input MeterInput) (*types.Meter, error)
	List(ctx context.Context, company *types.Company) ([]*types.Meter, error)
	Update(ctx context.Context, company *types.Company, meterID uuid.UUID, fields map[string]any) (*types.Meter, error)
	// Deactivate retires a meter without touching its submissions. Inactive
	// meters stop matching materialization and drop out of progress.
	Deactivate(ctx context.Context, company *types.Company, meterID uuid.UUID) error
	// Delete removes a meter permanently. Refused when any of its
	// submissions carry a value or evidence.
	Delete(ctx context.Context, company *types.Company, meterID uuid.UUID) error
}

type meterService struct {
	db             *gorm.DB
	log            *logger.Logger
	meterRepo      repos.MeterRepo
	submissionRepo repos.SubmissionRepo
}

func NewMeterService(
	db *gorm.DB,
	baseLog *logger.Logger,
	meterRepo repos.MeterRepo,
	submissionRepo repos.SubmissionRepo,
) MeterService {
	serviceLog := baseLog.With("service", "MeterService")
	return &meterService{
		db:             db,
		log:            serviceLog,
		meterRepo:      meterRepo,
		submissionRepo: submissionRepo,
	}
}

func (ms *meterService) Create(ctx context.Context, company *types.Company, input MeterInput) (*types.Meter, error) {
	name := input.Name
	if name == "" {
		name = types.DefaultMeterName
	}
	meter := &types.Meter{
		ID:                  uuid.New(),
		CompanyID:           company.ID,
		Type:                input.Type,
		Name:                name,
		AccountNumber:       input.AccountNumber,
		LocationDescription: input.LocationDescription,
		Status:              types.MeterStatusActive,
	}
	if _, err := ms.meterRepo.Create(ctx, nil, []*types.Meter{meter}); err != nil {
		return nil, fmt.Errorf("create meter: %w", err)
	}
	ms.log.Info("Meter created", "company_id", company.ID, "meter_id", meter.ID, "type", input.Type)
	return meter, nil
}

func (ms *meterService) List(ctx context.Context, company *types.Company) ([]*types.Meter, error) {
	return ms.meterRepo.ListByCompany(ctx, nil, company.ID)
}

func (ms *meterService) Update(ctx context.Context, company *types.Company, meterID uuid.UUID, fields map[string]any) (*types.Meter, error) {
	if _, err := ms.owned(ctx, company, meterID); err != nil {
		return nil, err
	}
	if err := ms.meterRepo.Update(ctx, nil, meterID, fields); err != nil {
		return nil, fmt.Errorf("update meter: %w", err)
	}
	return ms.meterRepo.GetByID(ctx, nil, meterID)
}

func (ms *meterService) Deactivate(ctx context.Context, company *types.Company, meterID uuid.UUID) error {
	if _, err := ms.owned(ctx, company, meterID); err != nil {
		return err
	}
	if err := ms.meterRepo.Update(ctx, nil, meterID, map[string]any{"status": types.MeterStatusInactive}); err != nil {
		return fmt.Errorf("deactivate meter: %w", err)
	}
	ms.log.Info("Meter deactivated", "company_id", company.ID, "meter_id", meterID)
	return nil
}

func (ms *meterService) Delete(ctx context.Context, company *types.Company, meterID uuid.UUID) error {
	if _, err := ms.owned(ctx, company, meterID); err != nil {
		return err
	}
	count, err := ms.submissionRepo.CountWithContentByMeter(ctx, nil, meterID)
	if err != nil {
		return fmt.Errorf("count meter submissions: %w", err)
	}
	if count > 0 {
		return ErrMeterHasData
	}
	return ms.db.Transaction(func(tx *gorm.DB) error {
		// Empty placeholder submissions go with the meter.
		if err := tx.WithContext(ctx).
			Where("meter_id = ?", meterID).
			Delete(&types.Submission{}).Error; err != nil {
			return fmt.Errorf("delete meter submissions: %w", err)
		}
		return ms.meterRepo.Delete(ctx, tx, meterID)
	})
}

func (ms *meterService) owned(ctx context.Context, company *types.Company, meterID uuid.UUID) (*types.Meter, error) {
	meter, err := ms.meterRepo.GetByID(ctx, nil, meterID)
	if err != nil {
		return nil, err
	}
	if meter.CompanyID != company.ID {
		return nil, ErrMeterNotOwned
	}
	return meter, nil
}
