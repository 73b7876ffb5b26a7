package service

import (
	"context"
	"database/sql"
	"etf-dashboard/internal/model"
	"etf-dashboard/internal/repository"
	"etf-dashboard/internal/strategy"
	"etf-dashboard/pkg/logger"
	"etf-dashboard/pkg/utils"
	"fmt"
)

type TaskExecutor interface {
	Execute(ctx context.Context, taskHistory *model.TaskExecutionHistory) error
}

type taskExecutor struct {
	log                *logger.Logger
	jobRepo            repository.JobRepository
	executorStrategies map[strategy.JobType]strategy.JobExecutionStrategy
}

func NewTaskExecutor(log *logger.Logger, jobRepo repository.JobRepository, executorStrategies map[strategy.JobType]strategy.JobExecutionStrategy) TaskExecutor {
	return &taskExecutor{
		log:                log,
		jobRepo:            jobRepo,
		executorStrategies: executorStrategies,
	}
}

// Execute runs the job behind taskHistory and records the outcome on it.
// A deadline hit while running is recorded as a timeout.
func (t *taskExecutor) Execute(ctx context.Context, taskHistory *model.TaskExecutionHistory) error {
	t.log.InfoContext(ctx, "Processing job", logger.IntField("job_id", int(taskHistory.JobID)), logger.IntField("history_id", int(taskHistory.ID)))

	job, err := t.jobRepo.FindByID(ctx, taskHistory.JobID)
	if err != nil {
		t.log.ErrorContext(ctx, "Failed to find job", logger.ErrorField(err), logger.IntField("job_id", int(taskHistory.JobID)))
		taskHistory.Status = model.StatusFailed
		taskHistory.ErrorMessage = sql.NullString{String: fmt.Sprintf("failed to find job: %v", err), Valid: true}
		return t.finish(ctx, taskHistory)
	}

	jobStrategy := t.executorStrategies[strategy.JobType(job.Type)]
	if jobStrategy == nil {
		t.log.ErrorContext(ctx, "Job type not found", logger.IntField("job_id", int(taskHistory.JobID)), logger.StringField("job_type", job.Type))
		taskHistory.Status = model.StatusFailed
		taskHistory.ErrorMessage = sql.NullString{String: fmt.Sprintf("job type %q not found", job.Type), Valid: true}
	} else {
		result, err := jobStrategy.Execute(ctx, job)
		switch {
		case err != nil && ctx.Err() == context.DeadlineExceeded:
			t.log.ErrorContext(ctx, "Job timed out", logger.ErrorField(err), logger.IntField("job_id", int(taskHistory.JobID)))
			taskHistory.Status = model.StatusTimeout
			taskHistory.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
		case err != nil:
			t.log.ErrorContext(ctx, "Failed to execute job", logger.ErrorField(err), logger.IntField("job_id", int(taskHistory.JobID)))
			taskHistory.Status = model.StatusFailed
			taskHistory.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
		default:
			taskHistory.Status = model.StatusCompleted
		}
		taskHistory.ExitCode = sql.NullInt32{Int32: result.ExitCode, Valid: true}
		taskHistory.Output = sql.NullString{String: result.Output, Valid: true}
	}

	return t.finish(ctx, taskHistory)
}

func (t *taskExecutor) finish(ctx context.Context, taskHistory *model.TaskExecutionHistory) error {
	taskHistory.CompletedAt = sql.NullTime{Time: utils.TimeNow(), Valid: true}
	// the job context may be past its deadline; the record must still land
	if err := t.jobRepo.UpdateTaskExecutionHistory(context.WithoutCancel(ctx), taskHistory); err != nil {
		t.log.ErrorContext(ctx, "Failed to update task execution history", logger.ErrorField(err), logger.IntField("job_id", int(taskHistory.JobID)))
		return fmt.Errorf("failed to update task execution history: %w", err)
	}
	return nil
}
