package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

type ChecklistRepo interface {
	// ReplaceForCompany swaps the company's entire checklist in one shot.
	// Callers are expected to run it inside a transaction so readers never
	// observe the gap between delete and insert.
	ReplaceForCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, items []*types.ChecklistItem) error
	ListByCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.ChecklistItem, error)
	CountByCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) (int64, error)
}

type checklistRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChecklistRepo(db *gorm.DB, baseLog *logger.Logger) ChecklistRepo {
	repoLog := baseLog.With("repo", "ChecklistRepo")
	return &checklistRepo{db: db, log: repoLog}
}

func (clr *checklistRepo) ReplaceForCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, items []*types.ChecklistItem) error {
	transaction := tx
	if transaction == nil {
		transaction = clr.db
	}
	if err := transaction.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&types.ChecklistItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&items).Error
}

func (clr *checklistRepo) ListByCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.ChecklistItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = clr.db
	}
	var results []*types.ChecklistItem
	if err := transaction.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("element_id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (clr *checklistRepo) CountByCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = clr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ChecklistItem{}).
		Where("company_id = ?", companyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
