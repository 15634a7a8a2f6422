package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

type SiteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sites []*types.Site) ([]*types.Site, error)
	ListByCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.Site, error)
	Update(ctx context.Context, tx *gorm.DB, siteID uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, siteID uuid.UUID) error
}

type siteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSiteRepo(db *gorm.DB, baseLog *logger.Logger) SiteRepo {
	repoLog := baseLog.With("repo", "SiteRepo")
	return &siteRepo{db: db, log: repoLog}
}

func (sr *siteRepo) Create(ctx context.Context, tx *gorm.DB, sites []*types.Site) ([]*types.Site, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(sites) == 0 {
		return []*types.Site{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

func (sr *siteRepo) ListByCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.Site, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Site
	if err := transaction.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *siteRepo) Update(ctx context.Context, tx *gorm.DB, siteID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Site{}).
		Where("id = ?", siteID).
		Updates(fields).Error
}

func (sr *siteRepo) Delete(ctx context.Context, tx *gorm.DB, siteID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", siteID).
		Delete(&types.Site{}).Error
}
