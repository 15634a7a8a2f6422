package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

var ErrNotFound = errors.New("not found")

type CompanyRepo interface {
	Create(ctx context.Context, tx *gorm.DB, companies []*types.Company) ([]*types.Company, error)
	GetByID(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) (*types.Company, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.Company, error)
	UpdateProfile(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, name, emirate, sector string) error
	SetGreenKey(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, hasGreenKey bool) error
	UpdateActiveFrameworks(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, frameworks datatypes.JSON) error
	Delete(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) error
}

type companyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompanyRepo(db *gorm.DB, baseLog *logger.Logger) CompanyRepo {
	repoLog := baseLog.With("repo", "CompanyRepo")
	return &companyRepo{db: db, log: repoLog}
}

func (cr *companyRepo) Create(ctx context.Context, tx *gorm.DB, companies []*types.Company) ([]*types.Company, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(companies) == 0 {
		return []*types.Company{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (cr *companyRepo) GetByID(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) (*types.Company, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.Company
	err := transaction.WithContext(ctx).
		Where("id = ?", companyID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *companyRepo) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.Company, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.Company
	err := transaction.WithContext(ctx).
		Where("code = ?", code).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *companyRepo) UpdateProfile(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, name, emirate, sector string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Company{}).
		Where("id = ?", companyID).
		Updates(map[string]any{
			"name":    name,
			"emirate": emirate,
			"sector":  sector,
		}).Error
}

func (cr *companyRepo) SetGreenKey(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, hasGreenKey bool) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Company{}).
		Where("id = ?", companyID).
		Update("has_green_key", hasGreenKey).Error
}

func (cr *companyRepo) UpdateActiveFrameworks(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, frameworks datatypes.JSON) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Company{}).
		Where("id = ?", companyID).
		Update("active_frameworks", frameworks).Error
}

func (cr *companyRepo) Delete(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	// Company owns its scoped rows; remove them before the company itself.
	for _, model := range []any{
		&types.Submission{},
		&types.ChecklistItem{},
		&types.ProfileAnswer{},
		&types.AssignmentRule{},
		&types.Meter{},
		&types.Site{},
	} {
		if err := transaction.WithContext(ctx).
			Where("company_id = ?", companyID).
			Delete(model).Error; err != nil {
			return err
		}
	}
	return transaction.WithContext(ctx).
		Where("id = ?", companyID).
		Delete(&types.Company{}).Error
}
