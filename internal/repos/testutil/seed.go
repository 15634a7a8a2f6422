package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenpoint-esg/esg-backend/internal/types"
)

func SeedCompany(tb testing.TB, ctx context.Context, tx *gorm.DB, emirate, sector string) *types.Company {
	tb.Helper()
	c := &types.Company{
		ID:      uuid.New(),
		Name:    "Test Co",
		Code:    "T" + uuid.NewString()[:8],
		Emirate: emirate,
		Sector:  sector,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed company: %v", err)
	}
	return c
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
		Role:     types.RoleAdmin,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedElement(tb testing.TB, ctx context.Context, tx *gorm.DB, e *types.DataElement) *types.DataElement {
	tb.Helper()
	if e.RequirementType == "" {
		e.RequirementType = types.RequirementMandatory
	}
	if len(e.Frameworks) == 0 {
		if err := e.SetFrameworkCodes([]string{types.FrameworkESG}); err != nil {
			tb.Fatalf("seed element frameworks: %v", err)
		}
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed element: %v", err)
	}
	return e
}

func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, questionID, elementID string, order int) *types.ProfilingQuestion {
	tb.Helper()
	q := &types.ProfilingQuestion{
		QuestionID:         questionID,
		Text:               "Does the company do this?",
		ActivatesElementID: elementID,
		Order:              order,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return q
}

func SeedMeter(tb testing.TB, ctx context.Context, tx *gorm.DB, companyID uuid.UUID, meterType, name, status string) *types.Meter {
	tb.Helper()
	m := &types.Meter{
		ID:        uuid.New(),
		CompanyID: companyID,
		Type:      meterType,
		Name:      name,
		Status:    status,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed meter: %v", err)
	}
	return m
}

func SeedChecklistItem(tb testing.TB, ctx context.Context, tx *gorm.DB, companyID uuid.UUID, elementID, cadence string) *types.ChecklistItem {
	tb.Helper()
	item := &types.ChecklistItem{
		ID:         uuid.New(),
		CompanyID:  companyID,
		ElementID:  elementID,
		IsRequired: true,
		Cadence:    cadence,
	}
	if err := tx.WithContext(ctx).Create(item).Error; err != nil {
		tb.Fatalf("seed checklist item: %v", err)
	}
	return item
}

func SeedSubmission(tb testing.TB, ctx context.Context, tx *gorm.DB, companyID uuid.UUID, elementID string, meterID uuid.UUID, year int, period, value, evidence string) *types.Submission {
	tb.Helper()
	s := &types.Submission{
		ID:              uuid.New(),
		CompanyID:       companyID,
		ElementID:       elementID,
		MeterID:         meterID,
		ReportingYear:   year,
		ReportingPeriod: period,
		Value:           value,
		EvidenceFile:    evidence,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed submission: %v", err)
	}
	return s
}
