package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

type ProfilingQuestionRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, questions []*types.ProfilingQuestion) error
	GetByIDs(ctx context.Context, tx *gorm.DB, questionIDs []string) ([]*types.ProfilingQuestion, error)
	ListByElementIDs(ctx context.Context, tx *gorm.DB, elementIDs []string) ([]*types.ProfilingQuestion, error)
}

type profilingQuestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfilingQuestionRepo(db *gorm.DB, baseLog *logger.Logger) ProfilingQuestionRepo {
	repoLog := baseLog.With("repo", "ProfilingQuestionRepo")
	return &profilingQuestionRepo{db: db, log: repoLog}
}

func (qr *profilingQuestionRepo) Upsert(ctx context.Context, tx *gorm.DB, questions []*types.ProfilingQuestion) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	if len(questions) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "question_id"}},
			UpdateAll: true,
		}).
		Create(&questions).Error
}

func (qr *profilingQuestionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, questionIDs []string) ([]*types.ProfilingQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var results []*types.ProfilingQuestion
	if len(questionIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("question_id IN ?", questionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (qr *profilingQuestionRepo) ListByElementIDs(ctx context.Context, tx *gorm.DB, elementIDs []string) ([]*types.ProfilingQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var results []*types.ProfilingQuestion
	if len(elementIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("activates_element_id IN ?", elementIDs).
		Order("question_order").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type ProfileAnswerRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, questionID string, answer bool) error
	ListByCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.ProfileAnswer, error)
	ListYesQuestionIDs(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]string, error)
}

type profileAnswerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileAnswerRepo(db *gorm.DB, baseLog *logger.Logger) ProfileAnswerRepo {
	repoLog := baseLog.With("repo", "ProfileAnswerRepo")
	return &profileAnswerRepo{db: db, log: repoLog}
}

func (ar *profileAnswerRepo) Upsert(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, questionID string, answer bool) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	row := &types.ProfileAnswer{
		ID:         uuid.New(),
		CompanyID:  companyID,
		QuestionID: questionID,
		Answer:     answer,
		AnsweredAt: time.Now().UTC(),
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"answer", "answered_at"}),
		}).
		Create(row).Error
}

func (ar *profileAnswerRepo) ListByCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.ProfileAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.ProfileAnswer
	if err := transaction.WithContext(ctx).
		Where("company_id = ?", companyID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *profileAnswerRepo) ListYesQuestionIDs(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var ids []string
	if err := transaction.WithContext(ctx).
		Model(&types.ProfileAnswer{}).
		Where("company_id = ? AND answer = ?", companyID, true).
		Pluck("question_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
