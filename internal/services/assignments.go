package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/repos"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

var ErrInvalidRuleScope = errors.New("rule needs an element id or a category")

type AssignmentService interface {
	// CreateRule registers a standing assignment for an element or a whole
	// category. New submissions in that scope get stamped automatically.
	CreateRule(ctx context.Context, company *types.Company, elementID, category string, assigneeID, assignerID uuid.UUID) (*types.AssignmentRule, error)
	ListRules(ctx context.Context, company *types.Company) ([]*types.AssignmentRule, error)
	DeleteRule(ctx context.Context, company *types.Company, ruleID uuid.UUID) error
}

type assignmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	assignmentRepo repos.AssignmentRuleRepo
	userRepo       repos.UserRepo
}

func NewAssignmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	assignmentRepo repos.AssignmentRuleRepo,
	userRepo repos.UserRepo,
) AssignmentService {
	serviceLog := baseLog.With("service", "AssignmentService")
	return &assignmentService{
		db:             db,
		log:            serviceLog,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
	}
}

func (as *assignmentService) CreateRule(ctx context.Context, company *types.Company, elementID, category string, assigneeID, assignerID uuid.UUID) (*types.AssignmentRule, error) {
	if elementID == "" && category == "" {
		return nil, ErrInvalidRuleScope
	}
	if _, err := as.userRepo.GetByID(ctx, nil, assigneeID); err != nil {
		return nil, fmt.Errorf("resolve assignee: %w", err)
	}
	rule := &types.AssignmentRule{
		ID:           uuid.New(),
		CompanyID:    company.ID,
		ElementID:    elementID,
		Category:     category,
		AssignedToID: assigneeID,
		AssignedByID: assignerID,
	}
	if _, err := as.assignmentRepo.Create(ctx, nil, []*types.AssignmentRule{rule}); err != nil {
		return nil, fmt.Errorf("create rule: %w", err)
	}
	as.log.Info("Assignment rule created",
		"company_id", company.ID, "element_id", elementID, "category", category)
	return rule, nil
}

func (as *assignmentService) ListRules(ctx context.Context, company *types.Company) ([]*types.AssignmentRule, error) {
	return as.assignmentRepo.ListByCompany(ctx, nil, company.ID)
}

func (as *assignmentService) DeleteRule(ctx context.Context, company *types.Company, ruleID uuid.UUID) error {
	rules, err := as.assignmentRepo.ListByCompany(ctx, nil, company.ID)
	if err != nil {
		return err
	}
	for _, rule := range rules {
		if rule.ID == ruleID {
			return as.assignmentRepo.Delete(ctx, nil, ruleID)
		}
	}
	return repos.ErrNotFound
}
