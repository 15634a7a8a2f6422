package services

import (
	"testing"

	"gorm.io/gorm"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/repos"
	"github.com/greenpoint-esg/esg-backend/internal/repos/testutil"
)

// testDeps bundles the transaction-scoped repos the service tests share.
// The transaction rolls back on cleanup, so tests never see each other.
type testDeps struct {
	tx  *gorm.DB
	log *logger.Logger

	userRepo       repos.UserRepo
	companyRepo    repos.CompanyRepo
	siteRepo       repos.SiteRepo
	frameworkRepo  repos.FrameworkRepo
	elementRepo    repos.DataElementRepo
	questionRepo   repos.ProfilingQuestionRepo
	answerRepo     repos.ProfileAnswerRepo
	checklistRepo  repos.ChecklistRepo
	meterRepo      repos.MeterRepo
	submissionRepo repos.SubmissionRepo
	assignmentRepo repos.AssignmentRuleRepo
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()
	log := testutil.Logger(t)
	tx := testutil.Tx(t, testutil.DB(t))
	return &testDeps{
		tx:             tx,
		log:            log,
		userRepo:       repos.NewUserRepo(tx, log),
		companyRepo:    repos.NewCompanyRepo(tx, log),
		siteRepo:       repos.NewSiteRepo(tx, log),
		frameworkRepo:  repos.NewFrameworkRepo(tx, log),
		elementRepo:    repos.NewDataElementRepo(tx, log),
		questionRepo:   repos.NewProfilingQuestionRepo(tx, log),
		answerRepo:     repos.NewProfileAnswerRepo(tx, log),
		checklistRepo:  repos.NewChecklistRepo(tx, log),
		meterRepo:      repos.NewMeterRepo(tx, log),
		submissionRepo: repos.NewSubmissionRepo(tx, log),
		assignmentRepo: repos.NewAssignmentRuleRepo(tx, log),
	}
}

func (d *testDeps) frameworkService() FrameworkService {
	return NewFrameworkService(d.tx, d.log, d.companyRepo, d.frameworkRepo)
}

func (d *testDeps) catalogService() CatalogService {
	return NewCatalogService(d.tx, d.log, d.frameworkService(), d.frameworkRepo, d.elementRepo, d.questionRepo)
}

func (d *testDeps) checklistService() ChecklistService {
	return NewChecklistService(d.tx, d.log, d.frameworkService(), d.catalogService(),
		d.frameworkRepo, d.elementRepo, d.questionRepo, d.answerRepo, d.checklistRepo)
}

func (d *testDeps) taskService() TaskService {
	return NewTaskService(d.tx, d.log, d.checklistRepo, d.elementRepo, d.meterRepo, d.submissionRepo, d.assignmentRepo)
}

func (d *testDeps) progressService() ProgressService {
	return NewProgressService(d.tx, d.log, d.taskService(), d.checklistRepo, d.elementRepo, d.meterRepo, d.submissionRepo)
}
