package service

import (
	"etf-dashboard/config"
	"etf-dashboard/internal/model"
	"etf-dashboard/internal/repository"
	"etf-dashboard/internal/strategy"
	"etf-dashboard/pkg/logger"

	"gorm.io/datatypes"
)

type Service struct {
	FundService      FundService
	PriceService     PriceService
	CompareService   CompareService
	IngestionService IngestionService
	SeedService      SeedService
	SchedulerService SchedulerService
	TaskExecutor     TaskExecutor
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
) *Service {
	ingestionService := NewIngestionService(cfg, log, repo)

	executorStrategies := make(map[strategy.JobType]strategy.JobExecutionStrategy)
	executorStrategies[strategy.JobTypeETFRefresh] = strategy.NewETFRefreshStrategy(log, repo.ETFRepo, ingestionService)
	executorStrategies[strategy.JobTypeDataCleanUp] = strategy.NewDataCleanUpStrategy(log, repo.JobRepo)

	taskExecutor := NewTaskExecutor(log, repo.JobRepo, executorStrategies)
	schedulerService := NewSchedulerService(cfg, log, repo.JobRepo, taskExecutor)

	return &Service{
		FundService:      NewFundService(log, repo, ingestionService),
		PriceService:     NewPriceService(log, repo),
		CompareService:   NewCompareService(log, repo),
		IngestionService: ingestionService,
		SeedService:      NewSeedService(log, repo, ingestionService),
		SchedulerService: schedulerService,
		TaskExecutor:     taskExecutor,
	}
}

// DefaultJobs mirrors the rows seeded by migrations/000002.
func DefaultJobs() []model.Job {
	return []model.Job{
		{
			Name:        "Daily ETF refresh",
			Description: "Re-ingest quote, holdings and price history of every stored fund",
			Type:        string(strategy.JobTypeETFRefresh),
			Payload:     datatypes.JSON(`{"include_history": true}`),
			Timeout:     3600,
			Schedules:   []model.TaskSchedule{{CronExpression: "30 22 * * 1-5", IsActive: true}},
		},
		{
			Name:        "Job history clean up",
			Description: "Delete task execution history older than the retention window",
			Type:        string(strategy.JobTypeDataCleanUp),
			Payload:     datatypes.JSON(`{"retention_days": 30}`),
			Timeout:     300,
			Schedules:   []model.TaskSchedule{{CronExpression: "0 3 * * 0", IsActive: true}},
		},
	}
}
