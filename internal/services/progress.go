package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/repos"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

// ProgressMetrics is the outbound completeness record. Each active-period
// submission contributes two task units: its data value and its evidence.
type ProgressMetrics struct {
	DataProgress     float64 `json:"data_progress"`
	EvidenceProgress float64 `json:"evidence_progress"`
	OverallProgress  float64 `json:"overall_progress"`

	TotalPoints     int `json:"total_points"`
	CompletedPoints int `json:"completed_points"`
	ItemsRemaining  int `json:"items_remaining"`

	TotalSubmissions int `json:"total_submissions"`
	DataComplete     int `json:"data_complete"`
	EvidenceComplete int `json:"evidence_complete"`

	InactivePeriodPoints      int `json:"inactive_period_points"`
	InactivePeriodSubmissions int `json:"inactive_period_submissions"`
}

type ProgressService interface {
	// Progress computes completeness for one month, or for the whole year
	// when month is nil. The yearly path materializes all twelve months
	// first so the denominator covers the full calendar.
	Progress(ctx context.Context, company *types.Company, year int, month *int) (*ProgressMetrics, error)
}

type progressService struct {
	db             *gorm.DB
	log            *logger.Logger
	taskService    TaskService
	checklistRepo  repos.ChecklistRepo
	elementRepo    repos.DataElementRepo
	meterRepo      repos.MeterRepo
	submissionRepo repos.SubmissionRepo
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	taskService TaskService,
	checklistRepo repos.ChecklistRepo,
	elementRepo repos.DataElementRepo,
	meterRepo repos.MeterRepo,
	submissionRepo repos.SubmissionRepo,
) ProgressService {
	serviceLog := baseLog.With("service", "ProgressService")
	return &progressService{
		db:             db,
		log:            serviceLog,
		taskService:    taskService,
		checklistRepo:  checklistRepo,
		elementRepo:    elementRepo,
		meterRepo:      meterRepo,
		submissionRepo: submissionRepo,
	}
}

func (ps *progressService) Progress(ctx context.Context, company *types.Company, year int, month *int) (*ProgressMetrics, error) {
	var monthsInScope []int
	if month != nil {
		if *month < 1 || *month > 12 {
			return nil, fmt.Errorf("invalid month %d", *month)
		}
		monthsInScope = []int{*month}
	} else {
		for m := 1; m <= 12; m++ {
			monthsInScope = append(monthsInScope, m)
		}
		// Materialization is idempotent; reruns create nothing new.
		for _, m := range monthsInScope {
			if _, err := ps.taskService.Materialize(ctx, company, year, m); err != nil {
				return nil, fmt.Errorf("materialize month %d: %w", m, err)
			}
		}
	}

	totalRaw, err := ps.analyticTotalPoints(ctx, company, monthsInScope)
	if err != nil {
		return nil, err
	}

	submissions, err := ps.scopedSubmissions(ctx, company.ID, year, month)
	if err != nil {
		return nil, err
	}

	meterStatus, err := ps.meterStatusMap(ctx, company.ID)
	if err != nil {
		return nil, err
	}

	var activeCount, inactiveCount, dataComplete, evidenceComplete int
	for _, submission := range submissions {
		// Submissions on inactive meters are excluded from the metrics
		// entirely; their meters no longer participate in the denominator.
		if submission.MeterID != uuid.Nil && meterStatus[submission.MeterID] == types.MeterStatusInactive {
			continue
		}
		if submission.Value == types.SentinelInactivePeriod {
			inactiveCount++
			continue
		}
		activeCount++
		if submission.HasValue() {
			dataComplete++
		}
		if submission.HasEvidence() {
			evidenceComplete++
		}
	}

	totalPoints := totalRaw - 2*inactiveCount
	if totalPoints < 0 {
		totalPoints = 0
	}
	slotCount := totalPoints / 2
	completed := dataComplete + evidenceComplete

	metrics := &ProgressMetrics{
		DataProgress:              percentage(dataComplete, slotCount),
		EvidenceProgress:          percentage(evidenceComplete, slotCount),
		OverallProgress:           percentage(completed, totalPoints),
		TotalPoints:               totalPoints,
		CompletedPoints:           completed,
		ItemsRemaining:            totalPoints - completed,
		TotalSubmissions:          activeCount,
		DataComplete:              dataComplete,
		EvidenceComplete:          evidenceComplete,
		InactivePeriodPoints:      2 * inactiveCount,
		InactivePeriodSubmissions: inactiveCount,
	}
	return metrics, nil
}

// analyticTotalPoints derives the denominator from the checklist's cadence
// and meter structure rather than from existing submissions, so months that
// have not been reported yet still count toward the total.
func (ps *progressService) analyticTotalPoints(ctx context.Context, company *types.Company, monthsInScope []int) (int, error) {
	items, err := ps.checklistRepo.ListByCompany(ctx, nil, company.ID)
	if err != nil {
		return 0, fmt.Errorf("list checklist: %w", err)
	}
	if len(items) == 0 {
		return 0, nil
	}

	elementIDs := make([]string, 0, len(items))
	for _, item := range items {
		elementIDs = append(elementIDs, item.ElementID)
	}
	elements, err := ps.elementRepo.GetByIDs(ctx, nil, elementIDs)
	if err != nil {
		return 0, fmt.Errorf("load elements: %w", err)
	}
	elementsByID := make(map[string]*types.DataElement, len(elements))
	for _, element := range elements {
		elementsByID[element.ElementID] = element
	}

	total := 0
	for _, item := range items {
		applicableMonths := 0
		for _, m := range monthsInScope {
			if types.CadenceAppliesToMonth(item.Cadence, m) {
				applicableMonths++
			}
		}
		if applicableMonths == 0 {
			continue
		}
		element := elementsByID[item.ElementID]
		if element == nil {
			continue
		}
		meterCount := 1
		if element.IsMetered {
			count, err := ps.activeMeterCount(ctx, company, element)
			if err != nil {
				return 0, err
			}
			meterCount = count
		}
		total += applicableMonths * meterCount * 2
	}
	return total, nil
}

// activeMeterCount mirrors the materializer's matching tiers without its
// auto-create side effect. A metered element never counts less than one
// meter: materialization would create one.
func (ps *progressService) activeMeterCount(ctx context.Context, company *types.Company, element *types.DataElement) (int, error) {
	expectedType := ExpectedMeterType(element)
	meters, err := ps.meterRepo.ListActiveByType(ctx, nil, company.ID, expectedType)
	if err != nil {
		return 0, fmt.Errorf("count meters by type: %w", err)
	}
	if len(meters) == 0 {
		if fragment := looseFragmentFor(element.Name); fragment != "" {
			meters, err = ps.meterRepo.ListActiveByTypeContains(ctx, nil, company.ID, fragment)
			if err != nil {
				return 0, fmt.Errorf("loose meter count: %w", err)
			}
		}
	}
	if len(meters) == 0 {
		return 1, nil
	}
	return len(meters), nil
}

func (ps *progressService) scopedSubmissions(ctx context.Context, companyID uuid.UUID, year int, month *int) ([]*types.Submission, error) {
	if month != nil {
		return ps.submissionRepo.ListForPeriod(ctx, nil, companyID, year, types.PeriodLabel(*month))
	}
	return ps.submissionRepo.ListForYear(ctx, nil, companyID, year)
}

func (ps *progressService) meterStatusMap(ctx context.Context, companyID uuid.UUID) (map[uuid.UUID]string, error) {
	meters, err := ps.meterRepo.ListByCompany(ctx, nil, companyID)
	if err != nil {
		return nil, fmt.Errorf("list meters: %w", err)
	}
	statusByID := make(map[uuid.UUID]string, len(meters))
	for _, meter := range meters {
		statusByID[meter.ID] = meter.Status
	}
	return statusByID, nil
}

func percentage(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
