package services

import (
	"context"
	"fmt"
	"os"

	"gorm.io/gorm"
	"gopkg.in/yaml.v3"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/repos"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

type CatalogService interface {
	// AvailableElements returns the catalog rows applicable to the company:
	// non-legacy elements whose framework codes intersect the company's
	// active set.
	AvailableElements(ctx context.Context, tx *gorm.DB, company *types.Company) ([]*types.DataElement, error)
	// ImportCatalog upserts frameworks, elements and profiling questions
	// from a YAML seed file. Reference data only; company rows are never
	// touched.
	ImportCatalog(ctx context.Context, path string) error
}

type catalogService struct {
	db               *gorm.DB
	log              *logger.Logger
	frameworkService FrameworkService
	frameworkRepo    repos.FrameworkRepo
	elementRepo      repos.DataElementRepo
	questionRepo     repos.ProfilingQuestionRepo
}

func NewCatalogService(
	db *gorm.DB,
	baseLog *logger.Logger,
	frameworkService FrameworkService,
	frameworkRepo repos.FrameworkRepo,
	elementRepo repos.DataElementRepo,
	questionRepo repos.ProfilingQuestionRepo,
) CatalogService {
	serviceLog := baseLog.With("service", "CatalogService")
	return &catalogService{
		db:               db,
		log:              serviceLog,
		frameworkService: frameworkService,
		frameworkRepo:    frameworkRepo,
		elementRepo:      elementRepo,
		questionRepo:     questionRepo,
	}
}

func (cs *catalogService) AvailableElements(ctx context.Context, tx *gorm.DB, company *types.Company) ([]*types.DataElement, error) {
	activeCodes, err := activeCodesFor(ctx, tx, cs.frameworkService, company)
	if err != nil {
		return nil, err
	}
	elements, err := cs.elementRepo.ListCurrent(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("list catalog elements: %w", err)
	}
	return filterByFrameworks(elements, activeCodes), nil
}

// filterByFrameworks keeps elements whose framework tags intersect the
// active set. Legacy rows are expected to be excluded upstream; the check
// here keeps the function safe on unfiltered input.
func filterByFrameworks(elements []*types.DataElement, activeCodes []string) []*types.DataElement {
	active := make(map[string]bool, len(activeCodes))
	for _, code := range activeCodes {
		active[code] = true
	}
	var out []*types.DataElement
	for _, element := range elements {
		if element.IsLegacy {
			continue
		}
		for _, code := range element.FrameworkCodes() {
			if active[code] {
				out = append(out, element)
				break
			}
		}
	}
	return out
}

type catalogFile struct {
	Frameworks []struct {
		Code             string `yaml:"code"`
		Name             string `yaml:"name"`
		Type             string `yaml:"type"`
		Description      string `yaml:"description"`
		ConditionEmirate string `yaml:"condition_emirate"`
		ConditionSector  string `yaml:"condition_sector"`
	} `yaml:"frameworks"`
	Elements []struct {
		ElementID       string   `yaml:"element_id"`
		Name            string   `yaml:"name"`
		Description     string   `yaml:"description"`
		Category        string   `yaml:"category"`
		RequirementType string   `yaml:"requirement_type"`
		Cadence         string   `yaml:"cadence"`
		IsMetered       bool     `yaml:"is_metered"`
		MeterType       string   `yaml:"meter_type"`
		Unit            string   `yaml:"unit"`
		Frameworks      []string `yaml:"frameworks"`
		ConditionLogic  string   `yaml:"condition_logic"`
		IsLegacy        bool     `yaml:"is_legacy"`
	} `yaml:"elements"`
	Questions []struct {
		QuestionID         string `yaml:"question_id"`
		Text               string `yaml:"text"`
		ActivatesElementID string `yaml:"activates_element_id"`
		Order              int    `yaml:"order"`
	} `yaml:"questions"`
}

func (cs *catalogService) ImportCatalog(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}

	frameworks := make([]*types.Framework, 0, len(file.Frameworks))
	for _, f := range file.Frameworks {
		frameworks = append(frameworks, &types.Framework{
			Code:             f.Code,
			Name:             f.Name,
			Type:             f.Type,
			Description:      f.Description,
			ConditionEmirate: f.ConditionEmirate,
			ConditionSector:  f.ConditionSector,
		})
	}

	elements := make([]*types.DataElement, 0, len(file.Elements))
	for _, e := range file.Elements {
		element := &types.DataElement{
			ElementID:       e.ElementID,
			Name:            e.Name,
			Description:     e.Description,
			Category:        e.Category,
			RequirementType: e.RequirementType,
			Cadence:         e.Cadence,
			IsMetered:       e.IsMetered,
			MeterType:       e.MeterType,
			Unit:            e.Unit,
			ConditionLogic:  e.ConditionLogic,
			IsLegacy:        e.IsLegacy,
		}
		if err := element.SetFrameworkCodes(e.Frameworks); err != nil {
			return fmt.Errorf("encode frameworks for %s: %w", e.ElementID, err)
		}
		elements = append(elements, element)
	}

	questions := make([]*types.ProfilingQuestion, 0, len(file.Questions))
	for _, q := range file.Questions {
		questions = append(questions, &types.ProfilingQuestion{
			QuestionID:         q.QuestionID,
			Text:               q.Text,
			ActivatesElementID: q.ActivatesElementID,
			Order:              q.Order,
		})
	}

	err = cs.db.Transaction(func(tx *gorm.DB) error {
		if err := cs.frameworkRepo.Upsert(ctx, tx, frameworks); err != nil {
			return fmt.Errorf("upsert frameworks: %w", err)
		}
		if err := cs.elementRepo.Upsert(ctx, tx, elements); err != nil {
			return fmt.Errorf("upsert elements: %w", err)
		}
		if err := cs.questionRepo.Upsert(ctx, tx, questions); err != nil {
			return fmt.Errorf("upsert questions: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cs.log.Info("Catalog imported",
		"frameworks", len(frameworks),
		"elements", len(elements),
		"questions", len(questions))
	return nil
}
