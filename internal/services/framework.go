package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/repos"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

// ErrCompanyProfileIncomplete is returned when framework resolution is
// attempted on a company whose profile fields are not populated.
var ErrCompanyProfileIncomplete = errors.New("company has no resolvable profile")

var ErrUnknownFramework = errors.New("unknown voluntary framework")

// frameworkRule is one row of the assignment rule table: when the predicate
// holds for a company profile, the code is active. Rules are evaluated in
// order and the base ESG code is always first.
type frameworkRule struct {
	code    string
	applies func(c *types.Company) bool
}

var frameworkRules = []frameworkRule{
	{
		code:    types.FrameworkESG,
		applies: func(*types.Company) bool { return true },
	},
	{
		code: types.FrameworkDubaiEnergy,
		applies: func(c *types.Company) bool {
			return c.Emirate == types.EmirateDubai
		},
	},
	{
		code: types.FrameworkDST,
		applies: func(c *types.Company) bool {
			return c.Emirate == types.EmirateDubai && c.Sector == types.SectorHospitality
		},
	},
	{
		code: types.FrameworkGreenKey,
		applies: func(c *types.Company) bool {
			return c.HasGreenKey
		},
	},
}

type FrameworkService interface {
	// Resolve computes the active framework codes for a profile. Pure:
	// identical inputs always yield the identical ordered set.
	Resolve(company *types.Company) ([]string, error)
	// RecomputeActive resolves and persists the result onto the company's
	// cache column, updating the in-memory struct as well.
	RecomputeActive(ctx context.Context, tx *gorm.DB, company *types.Company) ([]string, error)
	AdoptVoluntary(ctx context.Context, company *types.Company, frameworkCode string) error
	ListVoluntary(ctx context.Context) ([]*types.Framework, error)
}

type frameworkService struct {
	db            *gorm.DB
	log           *logger.Logger
	companyRepo   repos.CompanyRepo
	frameworkRepo repos.FrameworkRepo
}

func NewFrameworkService(
	db *gorm.DB,
	baseLog *logger.Logger,
	companyRepo repos.CompanyRepo,
	frameworkRepo repos.FrameworkRepo,
) FrameworkService {
	serviceLog := baseLog.With("service", "FrameworkService")
	return &frameworkService{
		db:            db,
		log:           serviceLog,
		companyRepo:   companyRepo,
		frameworkRepo: frameworkRepo,
	}
}

func (fs *frameworkService) Resolve(company *types.Company) ([]string, error) {
	if company == nil || !company.HasResolvableProfile() {
		return nil, ErrCompanyProfileIncomplete
	}
	codes := make([]string, 0, len(frameworkRules))
	seen := make(map[string]bool, len(frameworkRules))
	for _, rule := range frameworkRules {
		if !rule.applies(company) || seen[rule.code] {
			continue
		}
		seen[rule.code] = true
		codes = append(codes, rule.code)
	}
	return codes, nil
}

func (fs *frameworkService) RecomputeActive(ctx context.Context, tx *gorm.DB, company *types.Company) ([]string, error) {
	codes, err := fs.Resolve(company)
	if err != nil {
		return nil, err
	}
	if err := company.SetActiveFrameworkCodes(codes); err != nil {
		return nil, fmt.Errorf("encode active frameworks: %w", err)
	}
	if err := fs.companyRepo.UpdateActiveFrameworks(ctx, tx, company.ID, company.ActiveFrameworks); err != nil {
		return nil, fmt.Errorf("persist active frameworks: %w", err)
	}
	fs.log.Debug("Recomputed active frameworks", "company_id", company.ID, "frameworks", codes)
	return codes, nil
}

// AdoptVoluntary opts a company into a voluntary framework. Adopting
// GREEN_KEY flips the certification flag the resolver reads, so the active
// set is recomputed afterwards.
func (fs *frameworkService) AdoptVoluntary(ctx context.Context, company *types.Company, frameworkCode string) error {
	matches, err := fs.frameworkRepo.GetByCodes(ctx, nil, []string{frameworkCode})
	if err != nil {
		return fmt.Errorf("load framework: %w", err)
	}
	if len(matches) == 0 || matches[0].Type != types.FrameworkTypeVoluntary {
		return ErrUnknownFramework
	}

	return fs.db.Transaction(func(tx *gorm.DB) error {
		if frameworkCode == types.FrameworkGreenKey {
			if err := fs.companyRepo.SetGreenKey(ctx, tx, company.ID, true); err != nil {
				return fmt.Errorf("set green key: %w", err)
			}
			company.HasGreenKey = true
		}
		if _, err := fs.RecomputeActive(ctx, tx, company); err != nil {
			return err
		}
		return nil
	})
}

func (fs *frameworkService) ListVoluntary(ctx context.Context) ([]*types.Framework, error) {
	return fs.frameworkRepo.ListVoluntary(ctx, nil)
}

// activeCodesFor returns the cached active framework set, recomputing and
// persisting it when the cache is empty. Callers that might be racing a
// profile change should pass a transaction.
func activeCodesFor(ctx context.Context, tx *gorm.DB, fs FrameworkService, company *types.Company) ([]string, error) {
	if codes := company.ActiveFrameworkCodes(); len(codes) > 0 {
		return codes, nil
	}
	return fs.RecomputeActive(ctx, tx, company)
}
