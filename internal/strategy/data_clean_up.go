package strategy

import (
	"context"
	"encoding/json"
	"etf-dashboard/internal/model"
	"etf-dashboard/internal/repository"
	"etf-dashboard/pkg/logger"
	"etf-dashboard/pkg/utils"
	"fmt"
)

const defaultRetentionDays = 30

type DataCleanUpPayload struct {
	RetentionDays int `json:"retention_days"`
}

type DataCleanUpResult struct {
	Table string `json:"table"`
	Total int64  `json:"total"`
	Error string `json:"error,omitempty"`
}

type DataCleanUpStrategy struct {
	log     *logger.Logger
	jobRepo repository.JobRepository
}

func NewDataCleanUpStrategy(log *logger.Logger, jobRepo repository.JobRepository) JobExecutionStrategy {
	return &DataCleanUpStrategy{
		log:     log,
		jobRepo: jobRepo,
	}
}

func (s *DataCleanUpStrategy) Execute(ctx context.Context, job *model.Job) (JobResult, error) {
	s.log.InfoContext(ctx, "Starting data clean up")

	var payload DataCleanUpPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		s.log.ErrorContext(ctx, "Failed to unmarshal job payload", logger.ErrorField(err), logger.IntField("job_id", int(job.ID)))
		return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: fmt.Sprintf("failed to unmarshal job payload: %v", err)}, fmt.Errorf("failed to unmarshal job payload: %w", err)
	}
	if payload.RetentionDays <= 0 {
		payload.RetentionDays = defaultRetentionDays
	}

	date := utils.TimeNow().AddDate(0, 0, -payload.RetentionDays)
	totalDeleted, err := s.jobRepo.DeleteTaskHistoryOlderThan(ctx, date)
	result := DataCleanUpResult{Table: "task_execution_history", Total: totalDeleted}
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to delete job history", logger.ErrorField(err), logger.IntField("job_id", int(job.ID)))
		result.Error = fmt.Sprintf("failed to delete job history older than %s: %v", date.Format(utils.DateLayout), err)
	}

	res, marshalErr := json.Marshal([]DataCleanUpResult{result})
	if marshalErr != nil {
		return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: fmt.Sprintf("failed to marshal output message: %v", marshalErr)}, fmt.Errorf("failed to marshal output message: %w", marshalErr)
	}
	if err != nil {
		return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: string(res)}, err
	}
	return JobResult{ExitCode: JOB_EXIT_CODE_SUCCESS, Output: string(res)}, nil
}

func (s *DataCleanUpStrategy) GetType() JobType {
	return JobTypeDataCleanUp
}
