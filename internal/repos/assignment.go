package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

type AssignmentRuleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rules []*types.AssignmentRule) ([]*types.AssignmentRule, error)
	ListByCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.AssignmentRule, error)
	// FindForElement resolves the rule for one element: an element-level
	// rule wins, otherwise a category-level rule applies. nil means no rule.
	FindForElement(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, elementID, category string) (*types.AssignmentRule, error)
	Delete(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID) error
}

type assignmentRuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssignmentRuleRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentRuleRepo {
	repoLog := baseLog.With("repo", "AssignmentRuleRepo")
	return &assignmentRuleRepo{db: db, log: repoLog}
}

func (rr *assignmentRuleRepo) Create(ctx context.Context, tx *gorm.DB, rules []*types.AssignmentRule) ([]*types.AssignmentRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(rules) == 0 {
		return []*types.AssignmentRule{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (rr *assignmentRuleRepo) ListByCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.AssignmentRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.AssignmentRule
	if err := transaction.WithContext(ctx).
		Where("company_id = ?", companyID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *assignmentRuleRepo) FindForElement(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, elementID, category string) (*types.AssignmentRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var rule types.AssignmentRule
	err := transaction.WithContext(ctx).
		Where("company_id = ? AND element_id = ?", companyID, elementID).
		First(&rule).Error
	if err == nil {
		return &rule, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if category == "" {
		return nil, nil
	}
	err = transaction.WithContext(ctx).
		Where("company_id = ? AND element_id = '' AND category = ?", companyID, category).
		First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (rr *assignmentRuleRepo) Delete(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", ruleID).
		Delete(&types.AssignmentRule{}).Error
}
