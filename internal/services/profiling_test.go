package services

import (
	"context"
	"testing"

	"github.com/greenpoint-esg/esg-backend/internal/repos/testutil"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

func newProfilingService(t *testing.T) (ProfilingService, context.Context, *testDeps) {
	t.Helper()
	deps := newTestDeps(t)
	ps := NewProfilingService(deps.tx, deps.log, deps.catalogService(), deps.questionRepo, deps.answerRepo)
	return ps, context.Background(), deps
}

func TestQuestionsForConditionalElementsOnly(t *testing.T) {
	ps, ctx, deps := newProfilingService(t)
	company := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateAbuDhabi, types.SectorTechnology)

	testutil.SeedElement(t, ctx, deps.tx, &types.DataElement{
		ElementID: "M1", Name: "Mandatory", Cadence: types.CadenceMonthly,
	})
	testutil.SeedElement(t, ctx, deps.tx, &types.DataElement{
		ElementID: "C1", Name: "Gated",
		RequirementType: types.RequirementConditional, ConditionLogic: "gated",
	})
	// Conditional but carries no gating condition, so it asks no question.
	testutil.SeedElement(t, ctx, deps.tx, &types.DataElement{
		ElementID: "C2", Name: "Ungated",
		RequirementType: types.RequirementConditional,
	})
	testutil.SeedQuestion(t, ctx, deps.tx, "Q-C1", "C1", 2)
	testutil.SeedQuestion(t, ctx, deps.tx, "Q-C2", "C2", 1)

	questions, err := ps.QuestionsFor(ctx, company)
	if err != nil {
		t.Fatalf("QuestionsFor: %v", err)
	}
	if len(questions) != 1 || questions[0].QuestionID != "Q-C1" {
		t.Fatalf("want only Q-C1, got %+v", questions)
	}
}

func TestRecordAnswersSkipsUnknownQuestions(t *testing.T) {
	ps, ctx, deps := newProfilingService(t)
	company := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateAbuDhabi, types.SectorTechnology)

	testutil.SeedElement(t, ctx, deps.tx, &types.DataElement{
		ElementID: "C1", Name: "Gated",
		RequirementType: types.RequirementConditional, ConditionLogic: "gated",
	})
	testutil.SeedQuestion(t, ctx, deps.tx, "Q1", "C1", 1)

	err := ps.RecordAnswers(ctx, company, map[string]bool{"Q1": true, "Q-GONE": true})
	if err != nil {
		t.Fatalf("RecordAnswers: %v", err)
	}

	answers, err := deps.answerRepo.ListByCompany(ctx, nil, company.ID)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(answers) != 1 || answers[0].QuestionID != "Q1" || !answers[0].Answer {
		t.Fatalf("want single yes answer for Q1, got %+v", answers)
	}
}

func TestRecordAnswersUpsertsOnRepeat(t *testing.T) {
	ps, ctx, deps := newProfilingService(t)
	company := testutil.SeedCompany(t, ctx, deps.tx, types.EmirateAbuDhabi, types.SectorTechnology)

	testutil.SeedElement(t, ctx, deps.tx, &types.DataElement{
		ElementID: "C1", Name: "Gated",
		RequirementType: types.RequirementConditional, ConditionLogic: "gated",
	})
	testutil.SeedQuestion(t, ctx, deps.tx, "Q1", "C1", 1)

	if err := ps.RecordAnswers(ctx, company, map[string]bool{"Q1": true}); err != nil {
		t.Fatalf("first RecordAnswers: %v", err)
	}
	if err := ps.RecordAnswers(ctx, company, map[string]bool{"Q1": false}); err != nil {
		t.Fatalf("second RecordAnswers: %v", err)
	}

	answers, err := deps.answerRepo.ListByCompany(ctx, nil, company.ID)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(answers) != 1 {
		t.Fatalf("repeat answer must not duplicate, got %d rows", len(answers))
	}
	if answers[0].Answer {
		t.Fatal("latest answer must win")
	}
}
