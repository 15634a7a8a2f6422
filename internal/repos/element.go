package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

type DataElementRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, elements []*types.DataElement) error
	GetByIDs(ctx context.Context, tx *gorm.DB, elementIDs []string) ([]*types.DataElement, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.DataElement, error)
	ListCurrent(ctx context.Context, tx *gorm.DB) ([]*types.DataElement, error)
}

type dataElementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDataElementRepo(db *gorm.DB, baseLog *logger.Logger) DataElementRepo {
	repoLog := baseLog.With("repo", "DataElementRepo")
	return &dataElementRepo{db: db, log: repoLog}
}

func (er *dataElementRepo) Upsert(ctx context.Context, tx *gorm.DB, elements []*types.DataElement) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	if len(elements) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "element_id"}},
			UpdateAll: true,
		}).
		Create(&elements).Error
}

func (er *dataElementRepo) GetByIDs(ctx context.Context, tx *gorm.DB, elementIDs []string) ([]*types.DataElement, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var results []*types.DataElement
	if len(elementIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("element_id IN ?", elementIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *dataElementRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.DataElement, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var results []*types.DataElement
	if err := transaction.WithContext(ctx).
		Order("element_id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListCurrent returns all non-legacy catalog rows.
func (er *dataElementRepo) ListCurrent(ctx context.Context, tx *gorm.DB) ([]*types.DataElement, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var results []*types.DataElement
	if err := transaction.WithContext(ctx).
		Where("is_legacy = ?", false).
		Order("element_id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
