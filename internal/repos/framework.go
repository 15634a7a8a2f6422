package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

type FrameworkRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, frameworks []*types.Framework) error
	GetByCodes(ctx context.Context, tx *gorm.DB, codes []string) ([]*types.Framework, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Framework, error)
	ListVoluntary(ctx context.Context, tx *gorm.DB) ([]*types.Framework, error)
}

type frameworkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFrameworkRepo(db *gorm.DB, baseLog *logger.Logger) FrameworkRepo {
	repoLog := baseLog.With("repo", "FrameworkRepo")
	return &frameworkRepo{db: db, log: repoLog}
}

func (fr *frameworkRepo) Upsert(ctx context.Context, tx *gorm.DB, frameworks []*types.Framework) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if len(frameworks) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			UpdateAll: true,
		}).
		Create(&frameworks).Error
}

func (fr *frameworkRepo) GetByCodes(ctx context.Context, tx *gorm.DB, codes []string) ([]*types.Framework, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.Framework
	if len(codes) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("code IN ?", codes).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (fr *frameworkRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Framework, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.Framework
	if err := transaction.WithContext(ctx).
		Order("code").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (fr *frameworkRepo) ListVoluntary(ctx context.Context, tx *gorm.DB) ([]*types.Framework, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.Framework
	if err := transaction.WithContext(ctx).
		Where("type = ?", types.FrameworkTypeVoluntary).
		Order("code").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
