package services

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/greenpoint-esg/esg-backend/internal/repos/testutil"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

func newCompanyService(t *testing.T) (CompanyService, context.Context, *testDeps) {
	t.Helper()
	deps := newTestDeps(t)
	cs := NewCompanyService(deps.tx, deps.log, deps.frameworkService(), deps.checklistService(), deps.companyRepo, deps.siteRepo)
	return cs, context.Background(), deps
}

func TestOnboardResolvesFrameworks(t *testing.T) {
	cs, ctx, deps := newCompanyService(t)
	company, err := cs.Onboard(ctx, CompanyProfileInput{
		Name: "Palm Resort", Code: "PALM" + uuid.NewString()[:6],
		Emirate: types.EmirateDubai, Sector: types.SectorHospitality,
	})
	if err != nil {
		t.Fatalf("Onboard: %v", err)
	}
	want := []string{types.FrameworkESG, types.FrameworkDubaiEnergy, types.FrameworkDST}
	if !reflect.DeepEqual(company.ActiveFrameworkCodes(), want) {
		t.Fatalf("active = %v, want %v", company.ActiveFrameworkCodes(), want)
	}
	reloaded, err := deps.companyRepo.GetByID(ctx, nil, company.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(reloaded.ActiveFrameworkCodes(), want) {
		t.Fatalf("persisted active = %v, want %v", reloaded.ActiveFrameworkCodes(), want)
	}
}

func TestUpdateProfileRegeneratesChecklist(t *testing.T) {
	cs, ctx, deps := newCompanyService(t)

	esgOnly := &types.DataElement{ElementID: "ESG1", Name: "ESG One", Cadence: types.CadenceMonthly}
	testutil.SeedElement(t, ctx, deps.tx, esgOnly)
	dstOnly := &types.DataElement{ElementID: "DST1", Name: "DST One", Cadence: types.CadenceMonthly}
	if err := dstOnly.SetFrameworkCodes([]string{types.FrameworkDST}); err != nil {
		t.Fatalf("set codes: %v", err)
	}
	testutil.SeedElement(t, ctx, deps.tx, dstOnly)

	company, err := cs.Onboard(ctx, CompanyProfileInput{
		Name: "Northern Co", Code: "N" + uuid.NewString()[:6],
		Emirate: types.EmirateSharjah, Sector: types.SectorRetail,
	})
	if err != nil {
		t.Fatalf("Onboard: %v", err)
	}

	// Moving into Dubai hospitality activates DST; the checklist must follow.
	if _, err := cs.UpdateProfile(ctx, company.ID, CompanyProfileInput{
		Name: "Northern Co", Emirate: types.EmirateDubai, Sector: types.SectorHospitality,
	}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	items, err := deps.checklistRepo.ListByCompany(ctx, nil, company.ID)
	if err != nil {
		t.Fatalf("list checklist: %v", err)
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ElementID)
	}
	want := []string{"DST1", "ESG1"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("checklist after move = %v, want %v", ids, want)
	}
}
