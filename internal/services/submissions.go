package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/repos"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

var ErrSubmissionNotOwned = errors.New("submission does not belong to company")

// SubmissionUpdate carries a partial edit of a submission's content. Nil
// fields are left untouched.
type SubmissionUpdate struct {
	Value        *string `json:"value"`
	EvidenceFile *string `json:"evidence_file"`
}

type SubmissionService interface {
	// Update writes value and/or evidence onto an existing submission and
	// returns it with its derived status current.
	Update(ctx context.Context, company *types.Company, submissionID uuid.UUID, update SubmissionUpdate) (*types.Submission, error)
	// MarkPeriodInactive records that the submission's meter did not operate
	// this period. Any previously entered value is replaced by the marker.
	MarkPeriodInactive(ctx context.Context, company *types.Company, submissionID uuid.UUID) (*types.Submission, error)
	// Assign hands the submission to a user for completion.
	Assign(ctx context.Context, company *types.Company, submissionID, assigneeID, assignerID uuid.UUID) (*types.Submission, error)
}

type submissionService struct {
	db             *gorm.DB
	log            *logger.Logger
	submissionRepo repos.SubmissionRepo
	userRepo       repos.UserRepo
}

func NewSubmissionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	submissionRepo repos.SubmissionRepo,
	userRepo repos.UserRepo,
) SubmissionService {
	serviceLog := baseLog.With("service", "SubmissionService")
	return &submissionService{
		db:             db,
		log:            serviceLog,
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
	}
}

func (ss *submissionService) Update(ctx context.Context, company *types.Company, submissionID uuid.UUID, update SubmissionUpdate) (*types.Submission, error) {
	if _, err := ss.owned(ctx, company, submissionID); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if update.Value != nil {
		fields["value"] = *update.Value
	}
	if update.EvidenceFile != nil {
		fields["evidence_file"] = *update.EvidenceFile
	}
	if len(fields) > 0 {
		if err := ss.submissionRepo.UpdateContent(ctx, nil, submissionID, fields); err != nil {
			return nil, fmt.Errorf("update submission: %w", err)
		}
	}
	return ss.submissionRepo.GetByID(ctx, nil, submissionID)
}

func (ss *submissionService) MarkPeriodInactive(ctx context.Context, company *types.Company, submissionID uuid.UUID) (*types.Submission, error) {
	if _, err := ss.owned(ctx, company, submissionID); err != nil {
		return nil, err
	}
	fields := map[string]any{"value": types.SentinelInactivePeriod}
	if err := ss.submissionRepo.UpdateContent(ctx, nil, submissionID, fields); err != nil {
		return nil, fmt.Errorf("mark period inactive: %w", err)
	}
	ss.log.Info("Submission period marked inactive", "company_id", company.ID, "submission_id", submissionID)
	return ss.submissionRepo.GetByID(ctx, nil, submissionID)
}

func (ss *submissionService) Assign(ctx context.Context, company *types.Company, submissionID, assigneeID, assignerID uuid.UUID) (*types.Submission, error) {
	if _, err := ss.owned(ctx, company, submissionID); err != nil {
		return nil, err
	}
	if _, err := ss.userRepo.GetByID(ctx, nil, assigneeID); err != nil {
		return nil, fmt.Errorf("resolve assignee: %w", err)
	}
	now := time.Now().UTC()
	fields := map[string]any{
		"assigned_to_id": assigneeID,
		"assigned_by_id": assignerID,
		"assigned_at":    now,
	}
	if err := ss.submissionRepo.UpdateContent(ctx, nil, submissionID, fields); err != nil {
		return nil, fmt.Errorf("assign submission: %w", err)
	}
	return ss.submissionRepo.GetByID(ctx, nil, submissionID)
}

func (ss *submissionService) owned(ctx context.Context, company *types.Company, submissionID uuid.UUID) (*types.Submission, error) {
	submission, err := ss.submissionRepo.GetByID(ctx, nil, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.CompanyID != company.ID {
		return nil, ErrSubmissionNotOwned
	}
	return submission, nil
}
