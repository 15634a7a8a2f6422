package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/repos"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

// CompanyProfileInput is the onboarding/profile-edit payload.
type CompanyProfileInput struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Emirate string `json:"emirate"`
	Sector  string `json:"sector"`
}

type CompanyService interface {
	// Onboard creates a company and resolves its initial framework set in
	// one transaction.
	Onboard(ctx context.Context, input CompanyProfileInput) (*types.Company, error)
	Get(ctx context.Context, companyID uuid.UUID) (*types.Company, error)
	// UpdateProfile rewrites the profile fields, re-resolves the active
	// frameworks, and regenerates the checklist so downstream state never
	// lags a profile change.
	UpdateProfile(ctx context.Context, companyID uuid.UUID, input CompanyProfileInput) (*types.Company, error)
	Delete(ctx context.Context, companyID uuid.UUID) error

	ListSites(ctx context.Context, companyID uuid.UUID) ([]*types.Site, error)
	AddSite(ctx context.Context, companyID uuid.UUID, name, location, address string) (*types.Site, error)
}

type companyService struct {
	db               *gorm.DB
	log              *logger.Logger
	frameworkService FrameworkService
	checklistService ChecklistService
	companyRepo      repos.CompanyRepo
	siteRepo         repos.SiteRepo
}

func NewCompanyService(
	db *gorm.DB,
	baseLog *logger.Logger,
	frameworkService FrameworkService,
	checklistService ChecklistService,
	companyRepo repos.CompanyRepo,
	siteRepo repos.SiteRepo,
) CompanyService {
	serviceLog := baseLog.With("service", "CompanyService")
	return &companyService{
		db:               db,
		log:              serviceLog,
		frameworkService: frameworkService,
		checklistService: checklistService,
		companyRepo:      companyRepo,
		siteRepo:         siteRepo,
	}
}

func (cs *companyService) Onboard(ctx context.Context, input CompanyProfileInput) (*types.Company, error) {
	company := &types.Company{
		ID:      uuid.New(),
		Name:    input.Name,
		Code:    input.Code,
		Emirate: input.Emirate,
		Sector:  input.Sector,
	}
	if !company.HasResolvableProfile() {
		return nil, ErrCompanyProfileIncomplete
	}

	err := cs.db.Transaction(func(tx *gorm.DB) error {
		if _, err := cs.companyRepo.Create(ctx, tx, []*types.Company{company}); err != nil {
			return fmt.Errorf("create company: %w", err)
		}
		if _, err := cs.frameworkService.RecomputeActive(ctx, tx, company); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cs.log.Info("Company onboarded",
		"company_id", company.ID, "code", company.Code,
		"frameworks", company.ActiveFrameworkCodes())
	return company, nil
}

func (cs *companyService) Get(ctx context.Context, companyID uuid.UUID) (*types.Company, error) {
	return cs.companyRepo.GetByID(ctx, nil, companyID)
}

func (cs *companyService) UpdateProfile(ctx context.Context, companyID uuid.UUID, input CompanyProfileInput) (*types.Company, error) {
	company, err := cs.companyRepo.GetByID(ctx, nil, companyID)
	if err != nil {
		return nil, err
	}

	err = cs.db.Transaction(func(tx *gorm.DB) error {
		if err := cs.companyRepo.UpdateProfile(ctx, tx, companyID, input.Name, input.Emirate, input.Sector); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		company.Name = input.Name
		company.Emirate = input.Emirate
		company.Sector = input.Sector
		if _, err := cs.frameworkService.RecomputeActive(ctx, tx, company); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Regenerate outside the profile transaction; generation runs its own.
	if _, err := cs.checklistService.Generate(ctx, company); err != nil {
		return nil, fmt.Errorf("regenerate checklist: %w", err)
	}
	return company, nil
}

func (cs *companyService) Delete(ctx context.Context, companyID uuid.UUID) error {
	return cs.db.Transaction(func(tx *gorm.DB) error {
		return cs.companyRepo.Delete(ctx, tx, companyID)
	})
}

func (cs *companyService) ListSites(ctx context.Context, companyID uuid.UUID) ([]*types.Site, error) {
	return cs.siteRepo.ListByCompany(ctx, nil, companyID)
}

func (cs *companyService) AddSite(ctx context.Context, companyID uuid.UUID, name, location, address string) (*types.Site, error) {
	site := &types.Site{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      name,
		Location:  location,
		Address:   address,
		IsActive:  true,
	}
	if _, err := cs.siteRepo.Create(ctx, nil, []*types.Site{site}); err != nil {
		return nil, fmt.Errorf("create site: %w", err)
	}
	return site, nil
}
