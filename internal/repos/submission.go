package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

type SubmissionRepo interface {
	// Find returns nil (no error) when the slot has no submission yet.
	Find(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, elementID string, meterID uuid.UUID, year int, period string) (*types.Submission, error)
	Create(ctx context.Context, tx *gorm.DB, submission *types.Submission) error
	GetByID(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) (*types.Submission, error)
	ListForYear(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, year int) ([]*types.Submission, error)
	ListForPeriod(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, year int, period string) ([]*types.Submission, error)
	UpdateContent(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, fields map[string]any) error
	CountWithContentByMeter(ctx context.Context, tx *gorm.DB, meterID uuid.UUID) (int64, error)
}

type submissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	repoLog := baseLog.With("repo", "SubmissionRepo")
	return &submissionRepo{db: db, log: repoLog}
}

func (sr *submissionRepo) Find(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, elementID string, meterID uuid.UUID, year int, period string) (*types.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var result types.Submission
	err := transaction.WithContext(ctx).
		Where("company_id = ? AND element_id = ? AND meter_id = ? AND reporting_year = ? AND reporting_period = ?",
			companyID, elementID, meterID, year, period).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *submissionRepo) Create(ctx context.Context, tx *gorm.DB, submission *types.Submission) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).Create(submission).Error
}

func (sr *submissionRepo) GetByID(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) (*types.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var result types.Submission
	err := transaction.WithContext(ctx).
		Where("id = ?", submissionID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *submissionRepo) ListForYear(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, year int) ([]*types.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Submission
	if err := transaction.WithContext(ctx).
		Where("company_id = ? AND reporting_year = ?", companyID, year).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *submissionRepo) ListForPeriod(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, year int, period string) ([]*types.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Submission
	if err := transaction.WithContext(ctx).
		Where("company_id = ? AND reporting_year = ? AND reporting_period = ?", companyID, year, period).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *submissionRepo) UpdateContent(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Submission{}).
		Where("id = ?", submissionID).
		Updates(fields).Error
}

// CountWithContentByMeter counts submissions on a meter that carry a real
// value or evidence. Meters with such submissions must not be deleted.
func (sr *submissionRepo) CountWithContentByMeter(ctx context.Context, tx *gorm.DB, meterID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Submission{}).
		Where("meter_id = ?", meterID).
		Where("(value <> '' AND value <> ?) OR evidence_file <> ''", types.SentinelInactivePeriod).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
