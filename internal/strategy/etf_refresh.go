package strategy

import (
	"context"
	"encoding/json"
	"etf-dashboard/internal/dto"
	"etf-dashboard/internal/model"
	"etf-dashboard/internal/repository"
	"etf-dashboard/pkg/logger"
	"fmt"
)

// FundIngester is the part of the ingestion service a refresh needs.
type FundIngester interface {
	IngestSymbols(ctx context.Context, symbols []string, includeHistory bool) dto.IngestReport
}

type ETFRefreshPayload struct {
	Symbols        []string `json:"symbols"`
	IncludeHistory bool     `json:"include_history"`
}

type ETFRefreshStrategy struct {
	log      *logger.Logger
	etfRepo  repository.ETFRepository
	ingester FundIngester
}

func NewETFRefreshStrategy(log *logger.Logger, etfRepo repository.ETFRepository, ingester FundIngester) JobExecutionStrategy {
	return &ETFRefreshStrategy{
		log:      log,
		etfRepo:  etfRepo,
		ingester: ingester,
	}
}

// Execute re-ingests the payload symbols, or every stored fund when the
// payload names none.
func (s *ETFRefreshStrategy) Execute(ctx context.Context, job *model.Job) (JobResult, error) {
	var payload ETFRefreshPayload
	if len(job.Payload) > 0 {
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			s.log.ErrorContext(ctx, "Failed to unmarshal job payload", logger.ErrorField(err), logger.IntField("job_id", int(job.ID)))
			return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: fmt.Sprintf("failed to unmarshal job payload: %v", err)}, fmt.Errorf("failed to unmarshal job payload: %w", err)
		}
	}

	symbols := payload.Symbols
	if len(symbols) == 0 {
		stored, err := s.etfRepo.ListSymbols(ctx)
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to list stored funds", logger.ErrorField(err), logger.IntField("job_id", int(job.ID)))
			return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: fmt.Sprintf("failed to list stored funds: %v", err)}, fmt.Errorf("failed to list stored funds: %w", err)
		}
		symbols = stored
	}
	if len(symbols) == 0 {
		s.log.InfoContext(ctx, "No funds to refresh", logger.IntField("job_id", int(job.ID)))
		return JobResult{ExitCode: JOB_EXIT_CODE_SKIPPED, Output: "no funds to refresh"}, nil
	}

	report := s.ingester.IngestSymbols(ctx, symbols, payload.IncludeHistory)
	output, err := json.Marshal(report)
	if err != nil {
		return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: fmt.Sprintf("failed to marshal output message: %v", err)}, fmt.Errorf("failed to marshal output message: %w", err)
	}

	switch {
	case report.Failed == 0:
		return JobResult{ExitCode: JOB_EXIT_CODE_SUCCESS, Output: string(output)}, nil
	case report.Succeeded > 0:
		return JobResult{ExitCode: JOB_EXIT_CODE_PARTIAL_SUCCESS, Output: string(output)}, nil
	default:
		return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: string(output)}, fmt.Errorf("all %d funds failed to refresh", report.Failed)
	}
}

func (s *ETFRefreshStrategy) GetType() JobType {
	return JobTypeETFRefresh
}
