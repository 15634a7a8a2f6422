package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/greenpoint-esg/esg-backend/internal/repos/testutil"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

func TestMaterializeGatesByCadence(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	ts := deps.taskService()

	company := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateAbuDhabi, types.SectorTechnology)
	testutil.SeedElement(t, ctx, deps.tx, &types.DataElement{
		ElementID: "M1", Name: "Monthly Thing", Cadence: types.CadenceMonthly,
	})
	testutil.SeedElement(t, ctx, deps.tx, &types.DataElement{
		ElementID: "A1", Name: "Annual Thing", Cadence: types.CadenceAnnual,
	})
	testutil.SeedElement(t, ctx, deps.tx, &types.DataElement{
		ElementID: "EV1", Name: "Event Thing", Cadence: types.CadenceOnInstallation,
	})
	testutil.SeedChecklistItem(t, ctx, deps.tx, company.ID, "M1", types.CadenceMonthly)
	testutil.SeedChecklistItem(t, ctx, deps.tx, company.ID, "A1", types.CadenceAnnual)
	testutil.SeedChecklistItem(t, ctx, deps.tx, company.ID, "EV1", types.CadenceOnInstallation)

	for month := 1; month <= 11; month++ {
		tasks, err := ts.Materialize(ctx, company, 2025, month)
		if err != nil {
			t.Fatalf("Materialize month %d: %v", month, err)
		}
		if len(tasks) != 1 || tasks[0].Element.ElementID != "M1" {
			t.Fatalf("month %d: want only M1, got %d tasks", month, len(tasks))
		}
	}

	december, err := ts.Materialize(ctx, company, 2025, 12)
	if err != nil {
		t.Fatalf("Materialize december: %v", err)
	}
	if len(december) != 3 {
		t.Fatalf("december: want 3 tasks, got %d", len(december))
	}
}

func TestMaterializeFansOutPerMeter(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	ts := deps.taskService()

	company := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateAbuDhabi, types.SectorTechnology)
	testutil.SeedElement(t, ctx, deps.tx, &types.DataElement{
		ElementID: "ENV-001", Name: "Electricity Consumption",
		Cadence: types.CadenceMonthly, IsMetered: true, MeterType: "Electricity Consumption",
	})
	testutil.SeedChecklistItem(t, ctx, deps.tx, company.ID, "ENV-001", types.CadenceMonthly)

	m1 := testutil.SeedMeter(t, ctx, deps.tx, company.ID, "Electricity Consumption", "Tower A", types.MeterStatusActive)
	m2 := testutil.SeedMeter(t, ctx, deps.tx, company.ID, "Electricity Consumption", "Tower B", types.MeterStatusActive)
	m3 := testutil.SeedMeter(t, ctx, deps.tx, company.ID, "Electricity Consumption", "Tower C", types.MeterStatusActive)
	// Inactive meters never receive tasks.
	testutil.SeedMeter(t, ctx, deps.tx, company.ID, "Electricity Consumption", "Old Tower", types.MeterStatusInactive)

	tasks, err := ts.Materialize(ctx, company, 2025, 3)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("want 3 tasks (one per active meter), got %d", len(tasks))
	}
	seen := map[uuid.UUID]bool{}
	for _, task := range tasks {
		if task.Meter == nil {
			t.Fatal("metered task must carry its meter")
		}
		seen[task.Meter.ID] = true
		if task.Submission.MeterID != task.Meter.ID {
			t.Fatal("submission must be keyed to the task's meter")
		}
	}
	for _, m := range []uuid.UUID{m1.ID, m2.ID, m3.ID} {
		if !seen[m] {
			t.Fatalf("meter %s missing from fan-out", m)
		}
	}
}

func TestMaterializeAutoCreatesMeter(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	ts := deps.taskService()

	company := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateAbuDhabi, types.SectorTechnology)
	testutil.SeedElement(t, ctx, deps.tx, &types.DataElement{
		ElementID: "ENV-002", Name: "Water Consumption",
		Cadence: types.CadenceMonthly, IsMetered: true, MeterType: "Water Consumption",
	})
	testutil.SeedChecklistItem(t, ctx, deps.tx, company.ID, "ENV-002", types.CadenceMonthly)

	tasks, err := ts.Materialize(ctx, company, 2025, 3)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("want 1 task, got %d", len(tasks))
	}
	meter := tasks[0].Meter
	if meter == nil || !meter.IsAutoCreated {
		t.Fatalf("expected an auto-created meter, got %+v", meter)
	}
	if meter.Type != "Water Consumption" || meter.Name != types.DefaultMeterName {
		t.Fatalf("auto-created meter = %q/%q", meter.Type, meter.Name)
	}
}

func TestMaterializeLooseMeterMatch(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	ts := deps.taskService()

	company := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateAbuDhabi, types.SectorTechnology)
	testutil.SeedElement(t, ctx, deps.tx, &types.DataElement{
		ElementID: "ENV-001", Name: "Electricity Consumption",
		Cadence: types.CadenceMonthly, IsMetered: true, MeterType: "Electricity Consumption",
	})
	testutil.SeedChecklistItem(t, ctx, deps.tx, company.ID, "ENV-001", types.CadenceMonthly)
	// No exact type match, but the type contains "electricity".
	loose := testutil.SeedMeter(t, ctx, deps.tx, company.ID, "Main Electricity Feed", "Basement", types.MeterStatusActive)

	tasks, err := ts.Materialize(ctx, company, 2025, 3)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Meter == nil || tasks[0].Meter.ID != loose.ID {
		t.Fatalf("want loose-matched meter %s, got %+v", loose.ID, tasks)
	}
}

func TestMaterializeIsIdempotent(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	ts := deps.taskService()

	company := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateAbuDhabi, types.SectorTechnology)
	testutil.SeedElement(t, ctx, deps.tx, &types.DataElement{
		ElementID: "M1", Name: "Monthly Thing", Cadence: types.CadenceMonthly,
	})
	testutil.SeedChecklistItem(t, ctx, deps.tx, company.ID, "M1", types.CadenceMonthly)

	first, err := ts.Materialize(ctx, company, 2025, 6)
	if err != nil {
		t.Fatalf("first Materialize: %v", err)
	}
	second, err := ts.Materialize(ctx, company, 2025, 6)
	if err != nil {
		t.Fatalf("second Materialize: %v", err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("task counts = %d, %d; want 1, 1", len(first), len(second))
	}
	if first[0].Submission.ID != second[0].Submission.ID {
		t.Fatal("rerun must converge on the same submission row")
	}

	subs, err := deps.submissionRepo.ListForYear(ctx, nil, company.ID, 2025)
	if err != nil {
		t.Fatalf("list submissions: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("want exactly 1 submission after reruns, got %d", len(subs))
	}
}

func TestMaterializeStampsAssignmentRule(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	ts := deps.taskService()

	company := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateAbuDhabi, types.SectorTechnology)
	assignee := testutil.SeedUser(t, ctx, deps.tx, "assignee@example.com")
	assigner := testutil.SeedUser(t, ctx, deps.tx, "manager@example.com")

	testutil.SeedElement(t, ctx, deps.tx, &types.DataElement{
		ElementID: "M1", Name: "Monthly Thing",
		Cadence: types.CadenceMonthly, Category: types.CategoryEnvironmental,
	})
	testutil.SeedChecklistItem(t, ctx, deps.tx, company.ID, "M1", types.CadenceMonthly)
	if _, err := deps.assignmentRepo.Create(ctx, nil, []*types.AssignmentRule{{
		ID:           uuid.New(),
		CompanyID:    company.ID,
		Category:     types.CategoryEnvironmental,
		AssignedToID: assignee.ID,
		AssignedByID: assigner.ID,
	}}); err != nil {
		t.Fatalf("seed rule: %v", err)
	}

	tasks, err := ts.Materialize(ctx, company, 2025, 4)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("want 1 task, got %d", len(tasks))
	}
	sub := tasks[0].Submission
	if sub.AssignedToID == nil || *sub.AssignedToID != assignee.ID {
		t.Fatalf("assignment not stamped: %+v", sub.AssignedToID)
	}
}

func TestExpectedMeterType(t *testing.T) {
	cases := []struct {
		name    string
		element types.DataElement
		want    string
	}{
		{
			name:    "explicit column wins",
			element: types.DataElement{Name: "Anything", MeterType: "District Cooling Consumption"},
			want:    "District Cooling Consumption",
		},
		{
			name:    "keyword fallback",
			element: types.DataElement{Name: "Total electricity consumption (grid)"},
			want:    "Electricity Consumption",
		},
		{
			name:    "name fallback",
			element: types.DataElement{Name: "Steam Usage"},
			want:    "Steam Usage",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExpectedMeterType(&tc.element); got != tc.want {
				t.Fatalf("ExpectedMeterType = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAvailableMonths(t *testing.T) {
	deps := newTestDeps(t)
	ts := deps.taskService()
	if months := ts.AvailableMonths(2024); len(months) != 12 {
		t.Fatalf("past year: want 12 months, got %d", len(months))
	}
	if months := ts.AvailableMonths(9999); len(months) != 0 {
		t.Fatalf("future year: want 0 months, got %d", len(months))
	}
}
