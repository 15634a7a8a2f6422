package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/repos"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

// Task pairs a checklist item with the submission it is reported through.
// Metered elements fan out to one task per matching active meter; Meter is
// nil for non-metered elements.
type Task struct {
	Element    *types.DataElement `json:"element"`
	Meter      *types.Meter       `json:"meter,omitempty"`
	Submission *types.Submission  `json:"submission"`
	Cadence    string             `json:"cadence"`
}

// meterKeyword is the fallback tier of meter-type resolution, used only for
// catalog rows imported without an explicit meter_type. Matching is by
// substring of the element name.
type meterKeyword struct {
	needle string
	label  string
}

var meterKeywords = []meterKeyword{
	{"electricity consumption", "Electricity Consumption"},
	{"water consumption", "Water Consumption"},
	{"district cooling", "District Cooling Consumption"},
	{"renewable energy generation", "Renewable Energy Generation"},
	{"on-site renewable", "Renewable Energy Generation"},
	{"water flow", "Water Flow Rate"},
	{"sub-metered water", "Sub-metered Water"},
	{"renewable energy percentage", "Renewable Energy Percentage"},
}

// looseFragments drive the last matching tier: an existing active meter
// whose type merely contains the fragment is accepted before auto-creating.
var looseFragments = []string{"electricity", "water", "renewable", "cooling"}

type TaskService interface {
	// Materialize expands the checklist into the month's task list,
	// creating meters and submissions on demand. Safe to call repeatedly:
	// the submission uniqueness key makes reruns converge on the same set.
	Materialize(ctx context.Context, company *types.Company, year, month int) ([]Task, error)
	// AvailableMonths reports which months accept data entry for a year.
	AvailableMonths(year int) []int
}

type taskService struct {
	db             *gorm.DB
	log            *logger.Logger
	checklistRepo  repos.ChecklistRepo
	elementRepo    repos.DataElementRepo
	meterRepo      repos.MeterRepo
	submissionRepo repos.SubmissionRepo
	assignmentRepo repos.AssignmentRuleRepo
}

func NewTaskService(
	db *gorm.DB,
	baseLog *logger.Logger,
	checklistRepo repos.ChecklistRepo,
	elementRepo repos.DataElementRepo,
	meterRepo repos.MeterRepo,
	submissionRepo repos.SubmissionRepo,
	assignmentRepo repos.AssignmentRuleRepo,
) TaskService {
	serviceLog := baseLog.With("service", "TaskService")
	return &taskService{
		db:             db,
		log:            serviceLog,
		checklistRepo:  checklistRepo,
		elementRepo:    elementRepo,
		meterRepo:      meterRepo,
		submissionRepo: submissionRepo,
		assignmentRepo: assignmentRepo,
	}
}

func (ts *taskService) AvailableMonths(year int) []int {
	currentYear := time.Now().Year()
	if year > currentYear {
		return []int{}
	}
	months := make([]int, 0, 12)
	for m := 1; m <= 12; m++ {
		months = append(months, m)
	}
	return months
}

func (ts *taskService) Materialize(ctx context.Context, company *types.Company, year, month int) ([]Task, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	period := types.PeriodLabel(month)

	items, err := ts.checklistRepo.ListByCompany(ctx, nil, company.ID)
	if err != nil {
		return nil, fmt.Errorf("list checklist: %w", err)
	}

	elementIDs := make([]string, 0, len(items))
	for _, item := range items {
		elementIDs = append(elementIDs, item.ElementID)
	}
	elements, err := ts.elementRepo.GetByIDs(ctx, nil, elementIDs)
	if err != nil {
		return nil, fmt.Errorf("load elements: %w", err)
	}
	elementsByID := make(map[string]*types.DataElement, len(elements))
	for _, element := range elements {
		elementsByID[element.ElementID] = element
	}

	tasks := make([]Task, 0, len(items))
	for _, item := range items {
		if !types.CadenceAppliesToMonth(item.Cadence, month) {
			continue
		}
		element := elementsByID[item.ElementID]
		if element == nil {
			ts.log.Warn("Checklist item references missing element, skipping",
				"company_id", company.ID, "element_id", item.ElementID)
			continue
		}

		itemTasks, err := ts.materializeItem(ctx, company, element, item.Cadence, year, month, period)
		if err != nil {
			// One bad catalog row must not block the month's task list.
			ts.log.Error("Failed to materialize checklist item, skipping",
				"company_id", company.ID, "element_id", item.ElementID, "error", err)
			continue
		}
		tasks = append(tasks, itemTasks...)
	}
	return tasks, nil
}

func (ts *taskService) materializeItem(ctx context.Context, company *types.Company, element *types.DataElement, cadence string, year, month int, period string) ([]Task, error) {
	if !element.IsMetered {
		submission, err := ts.ensureSubmission(ctx, company, element, uuid.Nil, year, period)
		if err != nil {
			return nil, err
		}
		return []Task{{Element: element, Submission: submission, Cadence: cadence}}, nil
	}

	meters, err := ts.matchMeters(ctx, company, element)
	if err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(meters))
	for _, meter := range meters {
		submission, err := ts.ensureSubmission(ctx, company, element, meter.ID, year, period)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, Task{Element: element, Meter: meter, Submission: submission, Cadence: cadence})
	}
	return tasks, nil
}

// matchMeters resolves the active meters a metered element posts against,
// auto-creating one when nothing matches so the task always has a target.
func (ts *taskService) matchMeters(ctx context.Context, company *types.Company, element *types.DataElement) ([]*types.Meter, error) {
	expectedType := ExpectedMeterType(element)

	meters, err := ts.meterRepo.ListActiveByType(ctx, nil, company.ID, expectedType)
	if err != nil {
		return nil, fmt.Errorf("match meters by type: %w", err)
	}
	if len(meters) > 0 {
		return meters, nil
	}

	if fragment := looseFragmentFor(element.Name); fragment != "" {
		meters, err = ts.meterRepo.ListActiveByTypeContains(ctx, nil, company.ID, fragment)
		if err != nil {
			return nil, fmt.Errorf("loose meter match: %w", err)
		}
		if len(meters) > 0 {
			return meters, nil
		}
	}

	meter := &types.Meter{
		ID:            uuid.New(),
		CompanyID:     company.ID,
		Type:          expectedType,
		Name:          types.DefaultMeterName,
		Status:        types.MeterStatusActive,
		IsAutoCreated: true,
	}
	if _, err := ts.meterRepo.Create(ctx, nil, []*types.Meter{meter}); err != nil {
		return nil, fmt.Errorf("auto-create meter: %w", err)
	}
	ts.log.Info("Auto-created meter for metered element",
		"company_id", company.ID, "element_id", element.ElementID, "meter_type", expectedType)
	return []*types.Meter{meter}, nil
}

// ExpectedMeterType resolves a metered element's meter-type label. The
// catalog's explicit meter_type column is authoritative; the keyword table
// covers rows imported without one; the element name itself is the final
// fallback for legacy rows.
func ExpectedMeterType(element *types.DataElement) string {
	if element.MeterType != "" {
		return element.MeterType
	}
	nameLower := strings.ToLower(element.Name)
	for _, kw := range meterKeywords {
		if strings.Contains(nameLower, kw.needle) {
			return kw.label
		}
	}
	return element.Name
}

func looseFragmentFor(elementName string) string {
	nameLower := strings.ToLower(elementName)
	for _, fragment := range looseFragments {
		if strings.Contains(nameLower, fragment) {
			return fragment
		}
	}
	return ""
}

// ensureSubmission finds or creates the submission for one slot. Concurrent
// requests may race on the insert; the unique constraint turns the loser's
// insert into a refetch.
func (ts *taskService) ensureSubmission(ctx context.Context, company *types.Company, element *types.DataElement, meterID uuid.UUID, year int, period string) (*types.Submission, error) {
	existing, err := ts.submissionRepo.Find(ctx, nil, company.ID, element.ElementID, meterID, year, period)
	if err != nil {
		return nil, fmt.Errorf("find submission: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	submission := &types.Submission{
		ID:              uuid.New(),
		CompanyID:       company.ID,
		ElementID:       element.ElementID,
		MeterID:         meterID,
		ReportingYear:   year,
		ReportingPeriod: period,
	}
	ts.stampAssignment(ctx, submission, element)

	if err := ts.submissionRepo.Create(ctx, nil, submission); err != nil {
		// Duplicate insert race: another request created the row first.
		refetched, findErr := ts.submissionRepo.Find(ctx, nil, company.ID, element.ElementID, meterID, year, period)
		if findErr == nil && refetched != nil {
			return refetched, nil
		}
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return submission, nil
}

// stampAssignment applies an element- or category-level assignment rule to
// a brand-new submission. Existing assignments are never overwritten; this
// only runs on rows that do not exist yet.
func (ts *taskService) stampAssignment(ctx context.Context, submission *types.Submission, element *types.DataElement) {
	rule, err := ts.assignmentRepo.FindForElement(ctx, nil, submission.CompanyID, element.ElementID, element.Category)
	if err != nil {
		ts.log.Warn("Assignment rule lookup failed", "element_id", element.ElementID, "error", err)
		return
	}
	if rule == nil || submission.AssignedToID != nil {
		return
	}
	now := time.Now().UTC()
	assignedTo := rule.AssignedToID
	assignedBy := rule.AssignedByID
	submission.AssignedToID = &assignedTo
	submission.AssignedByID = &assignedBy
	submission.AssignedAt = &now
}
