package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/greenpoint-esg/esg-backend/internal/repos/testutil"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

func TestSubmissionFindReturnsNilWhenAbsent(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewSubmissionRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	got, err := repo.Find(ctx, nil, uuid.New(), "ENV-001", uuid.Nil, 2025, "May")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got != nil {
		t.Fatalf("want nil for missing slot, got %+v", got)
	}
}

func TestSubmissionSlotUniqueness(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewSubmissionRepo(tx, testutil.Logger(t))
	ctx := context.Background()
	company := testutil.SeedCompany(t, ctx, tx, types.EmirateAbuDhabi, types.SectorTechnology)

	first := &types.Submission{
		ID: uuid.New(), CompanyID: company.ID, ElementID: "ENV-001",
		MeterID: uuid.Nil, ReportingYear: 2025, ReportingPeriod: "May",
	}
	if err := repo.Create(ctx, nil, first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	dup := &types.Submission{
		ID: uuid.New(), CompanyID: company.ID, ElementID: "ENV-001",
		MeterID: uuid.Nil, ReportingYear: 2025, ReportingPeriod: "May",
	}
	if err := repo.Create(ctx, nil, dup); err == nil {
		t.Fatal("duplicate slot insert must fail")
	}

	// A different period in the same year is a different slot.
	other := &types.Submission{
		ID: uuid.New(), CompanyID: company.ID, ElementID: "ENV-001",
		MeterID: uuid.Nil, ReportingYear: 2025, ReportingPeriod: "Jun",
	}
	if err := repo.Create(ctx, nil, other); err != nil {
		t.Fatalf("create other period: %v", err)
	}
}

func TestCountWithContentByMeter(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewSubmissionRepo(tx, testutil.Logger(t))
	ctx := context.Background()
	company := testutil.SeedCompany(t, ctx, tx, types.EmirateAbuDhabi, types.SectorTechnology)
	meter := testutil.SeedMeter(t, ctx, tx, company.ID, "Electricity Consumption", "Main", types.MeterStatusActive)

	testutil.SeedSubmission(t, ctx, tx, company.ID, "ENV-001", meter.ID, 2025, "Jan", "120", "")
	testutil.SeedSubmission(t, ctx, tx, company.ID, "ENV-001", meter.ID, 2025, "Feb", "", "bill.pdf")
	testutil.SeedSubmission(t, ctx, tx, company.ID, "ENV-001", meter.ID, 2025, "Mar", "", "")
	testutil.SeedSubmission(t, ctx, tx, company.ID, "ENV-001", meter.ID, 2025, "Apr", types.SentinelInactivePeriod, "")

	count, err := repo.CountWithContentByMeter(ctx, nil, meter.ID)
	if err != nil {
		t.Fatalf("CountWithContentByMeter: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2 (empty and inactive rows excluded)", count)
	}
}

func TestUpdateContent(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewSubmissionRepo(tx, testutil.Logger(t))
	ctx := context.Background()
	company := testutil.SeedCompany(t, ctx, tx, types.EmirateAbuDhabi, types.SectorTechnology)
	sub := testutil.SeedSubmission(t, ctx, tx, company.ID, "ENV-001", uuid.Nil, 2025, "May", "", "")

	if err := repo.UpdateContent(ctx, nil, sub.ID, map[string]any{"value": "42", "evidence_file": "x.pdf"}); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	reloaded, err := repo.GetByID(ctx, nil, sub.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.Value != "42" || reloaded.EvidenceFile != "x.pdf" {
		t.Fatalf("update not applied: %+v", reloaded)
	}
	if reloaded.Status() != types.SubmissionComplete {
		t.Fatalf("status = %s, want complete", reloaded.Status())
	}
}
