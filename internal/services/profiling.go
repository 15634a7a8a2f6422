package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/repos"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

type ProfilingService interface {
	// QuestionsFor returns, in ascending order, every question whose
	// activated element is conditional, carries a gating condition, and is
	// currently available for this company.
	QuestionsFor(ctx context.Context, company *types.Company) ([]*types.ProfilingQuestion, error)
	// RecordAnswers upserts one answer per known question id as a single
	// atomic batch. Unknown question ids are skipped, not errors: stale
	// clients may post questions the catalog no longer asks.
	RecordAnswers(ctx context.Context, company *types.Company, answers map[string]bool) error
}

type profilingService struct {
	db             *gorm.DB
	log            *logger.Logger
	catalogService CatalogService
	questionRepo   repos.ProfilingQuestionRepo
	answerRepo     repos.ProfileAnswerRepo
}

func NewProfilingService(
	db *gorm.DB,
	baseLog *logger.Logger,
	catalogService CatalogService,
	questionRepo repos.ProfilingQuestionRepo,
	answerRepo repos.ProfileAnswerRepo,
) ProfilingService {
	serviceLog := baseLog.With("service", "ProfilingService")
	return &profilingService{
		db:             db,
		log:            serviceLog,
		catalogService: catalogService,
		questionRepo:   questionRepo,
		answerRepo:     answerRepo,
	}
}

func (ps *profilingService) QuestionsFor(ctx context.Context, company *types.Company) ([]*types.ProfilingQuestion, error) {
	available, err := ps.catalogService.AvailableElements(ctx, nil, company)
	if err != nil {
		return nil, err
	}

	var conditionalIDs []string
	for _, element := range available {
		if element.RequirementType != types.RequirementConditional {
			continue
		}
		if element.ConditionLogic == "" {
			continue
		}
		conditionalIDs = append(conditionalIDs, element.ElementID)
	}

	questions, err := ps.questionRepo.ListByElementIDs(ctx, nil, conditionalIDs)
	if err != nil {
		return nil, fmt.Errorf("list profiling questions: %w", err)
	}
	return questions, nil
}

func (ps *profilingService) RecordAnswers(ctx context.Context, company *types.Company, answers map[string]bool) error {
	if len(answers) == 0 {
		return nil
	}

	questionIDs := make([]string, 0, len(answers))
	for questionID := range answers {
		questionIDs = append(questionIDs, questionID)
	}
	known, err := ps.questionRepo.GetByIDs(ctx, nil, questionIDs)
	if err != nil {
		return fmt.Errorf("resolve questions: %w", err)
	}

	err = ps.db.Transaction(func(tx *gorm.DB) error {
		for _, question := range known {
			if err := ps.answerRepo.Upsert(ctx, tx, company.ID, question.QuestionID, answers[question.QuestionID]); err != nil {
				return fmt.Errorf("upsert answer %s: %w", question.QuestionID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if skipped := len(answers) - len(known); skipped > 0 {
		ps.log.Debug("Ignored unknown profiling question ids", "company_id", company.ID, "skipped", skipped)
	}
	return nil
}
