package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	redisclient "github.com/greenpoint-esg/esg-backend/internal/clients/redis"
	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/repos"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

const dashboardCacheTTL = 5 * time.Minute

// MonthProgress is one point of the dashboard's yearly series.
type MonthProgress struct {
	Month           int     `json:"month"`
	Label           string  `json:"label"`
	OverallProgress float64 `json:"overall_progress"`
	TotalPoints     int     `json:"total_points"`
	CompletedPoints int     `json:"completed_points"`
}

// DashboardStats is the aggregate view for one company and year.
type DashboardStats struct {
	CompanyID        string          `json:"company_id"`
	Year             int             `json:"year"`
	ActiveFrameworks []string        `json:"active_frameworks"`
	ChecklistSize    int             `json:"checklist_size"`
	MeterCount       int             `json:"meter_count"`
	Yearly           ProgressMetrics `json:"yearly"`
	Monthly          []MonthProgress `json:"monthly"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

type DashboardService interface {
	// Stats aggregates yearly progress and a twelve-point monthly series.
	// Results are cached briefly; pass refresh to bypass the cache.
	Stats(ctx context.Context, company *types.Company, year int, refresh bool) (*DashboardStats, error)
}

type dashboardService struct {
	db              *gorm.DB
	log             *logger.Logger
	cache           *redisclient.Client
	progressService ProgressService
	checklistRepo   repos.ChecklistRepo
	meterRepo       repos.MeterRepo
}

func NewDashboardService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cache *redisclient.Client,
	progressService ProgressService,
	checklistRepo repos.ChecklistRepo,
	meterRepo repos.MeterRepo,
) DashboardService {
	serviceLog := baseLog.With("service", "DashboardService")
	return &dashboardService{
		db:              db,
		log:             serviceLog,
		cache:           cache,
		progressService: progressService,
		checklistRepo:   checklistRepo,
		meterRepo:       meterRepo,
	}
}

func dashboardCacheKey(companyID string, year int) string {
	return fmt.Sprintf("dashboard:%s:%d", companyID, year)
}

func (ds *dashboardService) Stats(ctx context.Context, company *types.Company, year int, refresh bool) (*DashboardStats, error) {
	key := dashboardCacheKey(company.ID.String(), year)
	if !refresh {
		var cached DashboardStats
		if err := ds.cache.GetJSON(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	// The yearly pass materializes all twelve months, so the per-month
	// passes below only read.
	yearly, err := ds.progressService.Progress(ctx, company, year, nil)
	if err != nil {
		return nil, err
	}

	monthly := make([]MonthProgress, 12)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(4)
	for m := 1; m <= 12; m++ {
		month := m
		group.Go(func() error {
			metrics, err := ds.progressService.Progress(groupCtx, company, year, &month)
			if err != nil {
				return fmt.Errorf("month %d progress: %w", month, err)
			}
			monthly[month-1] = MonthProgress{
				Month:           month,
				Label:           types.PeriodLabel(month),
				OverallProgress: metrics.OverallProgress,
				TotalPoints:     metrics.TotalPoints,
				CompletedPoints: metrics.CompletedPoints,
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	checklistSize, err := ds.checklistRepo.CountByCompany(ctx, nil, company.ID)
	if err != nil {
		return nil, fmt.Errorf("count checklist: %w", err)
	}
	meters, err := ds.meterRepo.ListByCompany(ctx, nil, company.ID)
	if err != nil {
		return nil, fmt.Errorf("list meters: %w", err)
	}

	stats := &DashboardStats{
		CompanyID:        company.ID.String(),
		Year:             year,
		ActiveFrameworks: company.ActiveFrameworkCodes(),
		ChecklistSize:    int(checklistSize),
		MeterCount:       len(meters),
		Yearly:           *yearly,
		Monthly:          monthly,
		GeneratedAt:      time.Now().UTC(),
	}

	if err := ds.cache.SetJSON(ctx, key, stats, dashboardCacheTTL); err != nil {
		ds.log.Warn("Failed to cache dashboard stats", "company_id", company.ID, "error", err)
	}
	return stats, nil
}
