package repos

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

type MeterRepo interface {
	Create(ctx context.Context, tx *gorm.DB, meters []*types.Meter) ([]*types.Meter, error)
	GetByID(ctx context.Context, tx *gorm.DB, meterID uuid.UUID) (*types.Meter, error)
	ListByCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.Meter, error)
	ListActiveByType(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, meterType string) ([]*types.Meter, error)
	ListActiveByTypeContains(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, fragment string) ([]*types.Meter, error)
	Update(ctx context.Context, tx *gorm.DB, meterID uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, meterID uuid.UUID) error
}

type meterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMeterRepo(db *gorm.DB, baseLog *logger.Logger) MeterRepo {
	repoLog := baseLog.With("repo", "MeterRepo")
	return &meterRepo{db: db, log: repoLog}
}

func (mr *meterRepo) Create(ctx context.Context, tx *gorm.DB, meters []*types.Meter) ([]*types.Meter, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(meters) == 0 {
		return []*types.Meter{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&meters).Error; err != nil {
		return nil, err
	}
	return meters, nil
}

func (mr *meterRepo) GetByID(ctx context.Context, tx *gorm.DB, meterID uuid.UUID) (*types.Meter, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var result types.Meter
	err := transaction.WithContext(ctx).
		Where("id = ?", meterID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (mr *meterRepo) ListByCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.Meter, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.Meter
	if err := transaction.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("type, name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *meterRepo) ListActiveByType(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, meterType string) ([]*types.Meter, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.Meter
	if err := transaction.WithContext(ctx).
		Where("company_id = ? AND type = ? AND status = ?", companyID, meterType, types.MeterStatusActive).
		Order("name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *meterRepo) ListActiveByTypeContains(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, fragment string) ([]*types.Meter, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.Meter
	if err := transaction.WithContext(ctx).
		Where("company_id = ? AND status = ? AND lower(type) LIKE ?",
			companyID, types.MeterStatusActive, "%"+strings.ToLower(fragment)+"%").
		Order("name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *meterRepo) Update(ctx context.Context, tx *gorm.DB, meterID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Meter{}).
		Where("id = ?", meterID).
		Updates(fields).Error
}

func (mr *meterRepo) Delete(ctx context.Context, tx *gorm.DB, meterID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", meterID).
		Delete(&types.Meter{}).Error
}
