package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/greenpoint-esg/esg-backend/internal/repos/testutil"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

func newMeterService(t *testing.T) (MeterService, context.Context, *testDeps) {
	t.Helper()
	deps := newTestDeps(t)
	ms := NewMeterService(deps.tx, deps.log, deps.meterRepo, deps.submissionRepo)
	return ms, context.Background(), deps
}

func TestMeterDeleteRefusedWithData(t *testing.T) {
	ms, ctx, deps := newMeterService(t)
	company := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateAbuDhabi, types.SectorTechnology)
	meter := testutil.SeedMeter(t, ctx, deps.tx, company.ID, "Electricity Consumption", "Tower A", types.MeterStatusActive)
	testutil.SeedSubmission(t, ctx, deps.tx, company.ID, "ENV-001", meter.ID, 2025, "May", "120", "")

	if err := ms.Delete(ctx, company, meter.ID); !errors.Is(err, ErrMeterHasData) {
		t.Fatalf("want ErrMeterHasData, got %v", err)
	}
}

func TestMeterDeleteRemovesEmptyPlaceholders(t *testing.T) {
	ms, ctx, deps := newMeterService(t)
	company := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateAbuDhabi, types.SectorTechnology)
	meter := testutil.SeedMeter(t, ctx, deps.tx, company.ID, "Electricity Consumption", "Tower A", types.MeterStatusActive)
	// Materialized but never filled in; deletion may discard it.
	testutil.SeedSubmission(t, ctx, deps.tx, company.ID, "ENV-001", meter.ID, 2025, "May", "", "")
	// The inactive-period marker is not data either.
	testutil.SeedSubmission(t, ctx, deps.tx, company.ID, "ENV-001", meter.ID, 2025, "Jun", types.SentinelInactivePeriod, "")

	if err := ms.Delete(ctx, company, meter.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	subs, err := deps.submissionRepo.ListForYear(ctx, nil, company.ID, 2025)
	if err != nil {
		t.Fatalf("list submissions: %v", err)
	}
	if len(subs) != 0 {
		t.Fatalf("placeholder submissions must go with the meter, %d left", len(subs))
	}
}

func TestMeterOwnershipEnforced(t *testing.T) {
	ms, ctx, deps := newMeterService(t)
	owner := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateAbuDhabi, types.SectorTechnology)
	other := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateDubai, types.SectorRetail)
	meter := testutil.SeedMeter(t, ctx, deps.tx, owner.ID, "Electricity Consumption", "Tower A", types.MeterStatusActive)

	if err := ms.Deactivate(ctx, other, meter.ID); !errors.Is(err, ErrMeterNotOwned) {
		t.Fatalf("want ErrMeterNotOwned, got %v", err)
	}
}

func TestMeterDeactivate(t *testing.T) {
	ms, ctx, deps := newMeterService(t)
	company := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateAbuDhabi, types.SectorTechnology)
	meter := testutil.SeedMeter(t, ctx, deps.tx, company.ID, "Electricity Consumption", "Tower A", types.MeterStatusActive)

	if err := ms.Deactivate(ctx, company, meter.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	reloaded, err := deps.meterRepo.GetByID(ctx, nil, meter.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != types.MeterStatusInactive {
		t.Fatalf("status = %s, want inactive", reloaded.Status)
	}
}

func TestMeterCreateDefaultsName(t *testing.T) {
	ms, ctx, deps := newMeterService(t)
	company := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateAbuDhabi, types.SectorTechnology)

	meter, err := ms.Create(ctx, company, MeterInput{Type: "Water Consumption"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if meter.Name != types.DefaultMeterName || meter.Status != types.MeterStatusActive {
		t.Fatalf("meter defaults wrong: %+v", meter)
	}
	if meter.ID == uuid.Nil {
		t.Fatal("meter must get an id")
	}
}
