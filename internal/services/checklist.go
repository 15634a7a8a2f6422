package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/repos"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

// ChecklistEntry is the display shape of one checklist row: the element,
// its consolidated cadence, and the active frameworks that demand it.
type ChecklistEntry struct {
	ElementID  string   `json:"element_id"`
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	Cadence    string   `json:"cadence"`
	IsRequired bool     `json:"is_required"`
	IsMetered  bool     `json:"is_metered"`
	Frameworks []string `json:"frameworks"`
}

type ChecklistService interface {
	// Generate atomically replaces the company's checklist with the set
	// derived from its active frameworks and profiling answers. Idempotent:
	// unchanged inputs produce the same element set.
	Generate(ctx context.Context, company *types.Company) ([]*types.ChecklistItem, error)
	// Describe returns the current checklist with display labels.
	Describe(ctx context.Context, company *types.Company) ([]ChecklistEntry, error)
}

type checklistService struct {
	db               *gorm.DB
	log              *logger.Logger
	frameworkService FrameworkService
	catalogService   CatalogService
	frameworkRepo    repos.FrameworkRepo
	elementRepo      repos.DataElementRepo
	questionRepo     repos.ProfilingQuestionRepo
	answerRepo       repos.ProfileAnswerRepo
	checklistRepo    repos.ChecklistRepo
}

func NewChecklistService(
	db *gorm.DB,
	baseLog *logger.Logger,
	frameworkService FrameworkService,
	catalogService CatalogService,
	frameworkRepo repos.FrameworkRepo,
	elementRepo repos.DataElementRepo,
	questionRepo repos.ProfilingQuestionRepo,
	answerRepo repos.ProfileAnswerRepo,
	checklistRepo repos.ChecklistRepo,
) ChecklistService {
	serviceLog := baseLog.With("service", "ChecklistService")
	return &checklistService{
		db:               db,
		log:              serviceLog,
		frameworkService: frameworkService,
		catalogService:   catalogService,
		frameworkRepo:    frameworkRepo,
		elementRepo:      elementRepo,
		questionRepo:     questionRepo,
		answerRepo:       answerRepo,
		checklistRepo:    checklistRepo,
	}
}

func (cs *checklistService) Generate(ctx context.Context, company *types.Company) ([]*types.ChecklistItem, error) {
	if company == nil || !company.HasResolvableProfile() {
		return nil, ErrCompanyProfileIncomplete
	}

	var items []*types.ChecklistItem
	err := cs.db.Transaction(func(tx *gorm.DB) error {
		available, err := cs.catalogService.AvailableElements(ctx, tx, company)
		if err != nil {
			return err
		}

		activatedElementIDs, err := cs.activatedElementIDs(ctx, tx, company.ID)
		if err != nil {
			return err
		}

		included := make(map[string]*types.DataElement, len(available))
		for _, element := range available {
			switch element.RequirementType {
			case types.RequirementMandatory:
				included[element.ElementID] = element
			case types.RequirementConditional:
				if activatedElementIDs[element.ElementID] {
					included[element.ElementID] = element
				}
			}
		}

		elementIDs := make([]string, 0, len(included))
		for elementID := range included {
			elementIDs = append(elementIDs, elementID)
		}
		sort.Strings(elementIDs)

		items = make([]*types.ChecklistItem, 0, len(elementIDs))
		for _, elementID := range elementIDs {
			element := included[elementID]
			cadence := element.Cadence
			if cadence == "" {
				cadence = types.CadenceAnnual
			}
			items = append(items, &types.ChecklistItem{
				ID:         uuid.New(),
				CompanyID:  company.ID,
				ElementID:  elementID,
				IsRequired: true,
				Cadence:    cadence,
			})
		}

		return cs.checklistRepo.ReplaceForCompany(ctx, tx, company.ID, items)
	})
	if err != nil {
		return nil, err
	}

	cs.log.Info("Checklist regenerated", "company_id", company.ID, "items", len(items))
	return items, nil
}

// activatedElementIDs maps the company's yes answers back to the elements
// their questions activate. Answers to questions that no longer exist are
// simply absent from the result.
func (cs *checklistService) activatedElementIDs(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) (map[string]bool, error) {
	yesQuestionIDs, err := cs.answerRepo.ListYesQuestionIDs(ctx, tx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list yes answers: %w", err)
	}
	questions, err := cs.questionRepo.GetByIDs(ctx, tx, yesQuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve answered questions: %w", err)
	}
	activated := make(map[string]bool, len(questions))
	for _, question := range questions {
		activated[question.ActivatesElementID] = true
	}
	return activated, nil
}

func (cs *checklistService) Describe(ctx context.Context, company *types.Company) ([]ChecklistEntry, error) {
	items, err := cs.checklistRepo.ListByCompany(ctx, nil, company.ID)
	if err != nil {
		return nil, fmt.Errorf("list checklist: %w", err)
	}
	if len(items) == 0 {
		return []ChecklistEntry{}, nil
	}

	elementIDs := make([]string, 0, len(items))
	for _, item := range items {
		elementIDs = append(elementIDs, item.ElementID)
	}
	elements, err := cs.elementRepo.GetByIDs(ctx, nil, elementIDs)
	if err != nil {
		return nil, fmt.Errorf("load elements: %w", err)
	}
	elementsByID := make(map[string]*types.DataElement, len(elements))
	for _, element := range elements {
		elementsByID[element.ElementID] = element
	}

	activeCodes, err := activeCodesFor(ctx, nil, cs.frameworkService, company)
	if err != nil {
		return nil, err
	}
	active := make(map[string]bool, len(activeCodes))
	for _, code := range activeCodes {
		active[code] = true
	}
	frameworks, err := cs.frameworkRepo.GetByCodes(ctx, nil, activeCodes)
	if err != nil {
		return nil, fmt.Errorf("load frameworks: %w", err)
	}
	nameByCode := make(map[string]string, len(frameworks))
	for _, framework := range frameworks {
		nameByCode[framework.Code] = framework.Name
	}

	entries := make([]ChecklistEntry, 0, len(items))
	for _, item := range items {
		element := elementsByID[item.ElementID]
		if element == nil {
			// Catalog row disappeared since generation; display-only path,
			// skip rather than fail.
			cs.log.Warn("Checklist item references missing element", "element_id", item.ElementID)
			continue
		}
		var labels []string
		for _, code := range element.FrameworkCodes() {
			if !active[code] {
				continue
			}
			if name := nameByCode[code]; name != "" {
				labels = append(labels, name)
			} else {
				labels = append(labels, code)
			}
		}
		entries = append(entries, ChecklistEntry{
			ElementID:  element.ElementID,
			Name:       element.Name,
			Category:   element.Category,
			Cadence:    item.Cadence,
			IsRequired: item.IsRequired,
			IsMetered:  element.IsMetered,
			Frameworks: labels,
		})
	}
	return entries, nil
}
