package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/greenpoint-esg/esg-backend/internal/repos/testutil"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

// seedMonthlyItem seeds one non-metered monthly element plus its checklist row.
func seedMonthlyItem(t *testing.T, deps *testDeps, ctx context.Context, companyID uuid.UUID, elementID string) {
	t.Helper()
	testutil.SeedElement(t, ctx, deps.tx, &types.DataElement{
		ElementID: elementID, Name: elementID, Cadence: types.CadenceMonthly,
	})
	testutil.SeedChecklistItem(t, ctx, deps.tx, companyID, elementID, types.CadenceMonthly)
}

func TestProgressMonthScope(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	ps := deps.progressService()

	company := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateAbuDhabi, types.SectorTechnology)
	for _, id := range []string{"E1", "E2", "E3", "E4", "E5"} {
		seedMonthlyItem(t, deps, ctx, company.ID, id)
	}

	// Five slots: two complete, one value-only, two untouched.
	testutil.SeedSubmission(t, ctx, deps.tx, company.ID, "E1", uuid.Nil, 2025, "May", "100", "bill.pdf")
	testutil.SeedSubmission(t, ctx, deps.tx, company.ID, "E2", uuid.Nil, 2025, "May", "200", "inv.pdf")
	testutil.SeedSubmission(t, ctx, deps.tx, company.ID, "E3", uuid.Nil, 2025, "May", "300", "")
	testutil.SeedSubmission(t, ctx, deps.tx, company.ID, "E4", uuid.Nil, 2025, "May", "", "")
	testutil.SeedSubmission(t, ctx, deps.tx, company.ID, "E5", uuid.Nil, 2025, "May", "", "")

	month := 5
	metrics, err := ps.Progress(ctx, company, 2025, &month)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}

	if metrics.TotalPoints != 10 {
		t.Fatalf("total_points = %d, want 10", metrics.TotalPoints)
	}
	if metrics.CompletedPoints != 5 {
		t.Fatalf("completed_points = %d, want 5", metrics.CompletedPoints)
	}
	if metrics.OverallProgress != 50.0 {
		t.Fatalf("overall_progress = %v, want 50.0", metrics.OverallProgress)
	}
	if metrics.DataComplete != 3 || metrics.EvidenceComplete != 2 {
		t.Fatalf("data/evidence = %d/%d, want 3/2", metrics.DataComplete, metrics.EvidenceComplete)
	}
	if metrics.DataProgress != 60.0 || metrics.EvidenceProgress != 40.0 {
		t.Fatalf("data/evidence progress = %v/%v, want 60/40", metrics.DataProgress, metrics.EvidenceProgress)
	}
	if metrics.ItemsRemaining != 5 {
		t.Fatalf("items_remaining = %d, want 5", metrics.ItemsRemaining)
	}
	if metrics.TotalSubmissions != 5 {
		t.Fatalf("total_submissions = %d, want 5", metrics.TotalSubmissions)
	}
}

func TestProgressCountsUnreportedSlots(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	ps := deps.progressService()

	// Checklist exists but nothing was ever materialized or reported: the
	// denominator still reflects the month's full expectation.
	company := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateAbuDhabi, types.SectorTechnology)
	seedMonthlyItem(t, deps, ctx, company.ID, "E1")
	seedMonthlyItem(t, deps, ctx, company.ID, "E2")

	month := 3
	metrics, err := ps.Progress(ctx, company, 2025, &month)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if metrics.TotalPoints != 4 {
		t.Fatalf("total_points = %d, want 4", metrics.TotalPoints)
	}
	if metrics.CompletedPoints != 0 || metrics.OverallProgress != 0 {
		t.Fatalf("empty month must report zero completion, got %+v", metrics)
	}
}

func TestProgressEmptyChecklistIsAllZero(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	ps := deps.progressService()

	company := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateAbuDhabi, types.SectorTechnology)
	month := 7
	metrics, err := ps.Progress(ctx, company, 2025, &month)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if metrics.TotalPoints != 0 || metrics.CompletedPoints != 0 ||
		metrics.OverallProgress != 0 || metrics.DataProgress != 0 || metrics.EvidenceProgress != 0 {
		t.Fatalf("want all-zero metrics, got %+v", metrics)
	}
}

func TestProgressExcludesInactivePeriods(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	ps := deps.progressService()

	company := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateAbuDhabi, types.SectorTechnology)
	seedMonthlyItem(t, deps, ctx, company.ID, "E1")
	seedMonthlyItem(t, deps, ctx, company.ID, "E2")

	testutil.SeedSubmission(t, ctx, deps.tx, company.ID, "E1", uuid.Nil, 2025, "May", "100", "bill.pdf")
	testutil.SeedSubmission(t, ctx, deps.tx, company.ID, "E2", uuid.Nil, 2025, "May", types.SentinelInactivePeriod, "")

	month := 5
	metrics, err := ps.Progress(ctx, company, 2025, &month)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	// The inactive slot's two points leave the denominator entirely.
	if metrics.TotalPoints != 2 {
		t.Fatalf("total_points = %d, want 2", metrics.TotalPoints)
	}
	if metrics.CompletedPoints != 2 || metrics.OverallProgress != 100.0 {
		t.Fatalf("completed = %d at %v%%, want 2 at 100%%", metrics.CompletedPoints, metrics.OverallProgress)
	}
	if metrics.InactivePeriodSubmissions != 1 || metrics.InactivePeriodPoints != 2 {
		t.Fatalf("inactive bookkeeping = %d subs / %d points, want 1 / 2",
			metrics.InactivePeriodSubmissions, metrics.InactivePeriodPoints)
	}
	if metrics.TotalSubmissions != 1 {
		t.Fatalf("total_submissions = %d, want 1 (inactive excluded)", metrics.TotalSubmissions)
	}
}

func TestProgressSkipsInactiveMeters(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	ps := deps.progressService()

	company := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateAbuDhabi, types.SectorTechnology)
	testutil.SeedElement(t, ctx, deps.tx, &types.DataElement{
		ElementID: "ENV-001", Name: "Electricity Consumption",
		Cadence: types.CadenceMonthly, IsMetered: true, MeterType: "Electricity Consumption",
	})
	testutil.SeedChecklistItem(t, ctx, deps.tx, company.ID, "ENV-001", types.CadenceMonthly)

	active := testutil.SeedMeter(t, ctx, deps.tx, company.ID, "Electricity Consumption", "Tower A", types.MeterStatusActive)
	retired := testutil.SeedMeter(t, ctx, deps.tx, company.ID, "Electricity Consumption", "Old", types.MeterStatusInactive)

	testutil.SeedSubmission(t, ctx, deps.tx, company.ID, "ENV-001", active.ID, 2025, "May", "100", "bill.pdf")
	// Historical row on the retired meter must not count either way.
	testutil.SeedSubmission(t, ctx, deps.tx, company.ID, "ENV-001", retired.ID, 2025, "May", "999", "old.pdf")

	month := 5
	metrics, err := ps.Progress(ctx, company, 2025, &month)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if metrics.TotalPoints != 2 {
		t.Fatalf("total_points = %d, want 2 (one active meter)", metrics.TotalPoints)
	}
	if metrics.TotalSubmissions != 1 || metrics.CompletedPoints != 2 {
		t.Fatalf("active-only accounting broken: %+v", metrics)
	}
}

func TestProgressYearScopeMaterializes(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	ps := deps.progressService()

	company := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateAbuDhabi, types.SectorTechnology)
	seedMonthlyItem(t, deps, ctx, company.ID, "E1")
	testutil.SeedElement(t, ctx, deps.tx, &types.DataElement{
		ElementID: "A1", Name: "Annual Thing", Cadence: types.CadenceAnnual,
	})
	testutil.SeedChecklistItem(t, ctx, deps.tx, company.ID, "A1", types.CadenceAnnual)

	metrics, err := ps.Progress(ctx, company, 2025, nil)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	// 12 monthly slots plus 1 annual slot, 2 points each.
	if metrics.TotalPoints != 26 {
		t.Fatalf("total_points = %d, want 26", metrics.TotalPoints)
	}

	subs, err := deps.submissionRepo.ListForYear(ctx, nil, company.ID, 2025)
	if err != nil {
		t.Fatalf("list submissions: %v", err)
	}
	if len(subs) != 13 {
		t.Fatalf("year scope must materialize 13 submissions, got %d", len(subs))
	}
}
