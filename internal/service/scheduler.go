package service

import (
	"context"
	"database/sql"
	"etf-dashboard/config"
	"etf-dashboard/internal/dto"
	"etf-dashboard/internal/model"
	"etf-dashboard/internal/repository"
	"etf-dashboard/pkg/logger"
	"etf-dashboard/pkg/utils"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

type SchedulerService interface {
	Execute(ctx context.Context) error
	GetJobSchedule(ctx context.Context, param model.GetJobParam) ([]model.Job, error)
	RunJobTask(ctx context.Context, jobID uint) error
	EnsureDefaultJobs(ctx context.Context) error
	Wait()
}

type schedulerService struct {
	cfg          *config.Config
	log          *logger.Logger
	cronParser   cron.Parser
	jobRepo      repository.JobRepository
	taskExecutor TaskExecutor
	semaphore    chan struct{}
	running      sync.WaitGroup
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	jobRepo repository.JobRepository,
	taskExecutor TaskExecutor,
) SchedulerService {
	maxConcurrency := cfg.Scheduler.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &schedulerService{
		cfg:          cfg,
		log:          log,
		jobRepo:      jobRepo,
		cronParser:   NewCronParser(),
		taskExecutor: taskExecutor,
		semaphore:    make(chan struct{}, maxConcurrency),
	}
}

// NewCronParser accepts standard five field expressions and descriptors
// such as @daily or @every 1m.
func NewCronParser() cron.Parser {
	return cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// Execute starts every due schedule and moves its next execution forward.
func (s *schedulerService) Execute(ctx context.Context) error {
	jobs, err := s.jobRepo.FindJobsToSchedule(ctx, utils.WithPreload("Job"))
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to find jobs to schedule", logger.ErrorField(err))
		return fmt.Errorf("failed to find jobs to schedule: %w", err)
	}

	if len(jobs) == 0 {
		s.log.DebugContext(ctx, "No jobs to schedule")
		return nil
	}
	s.log.InfoContext(ctx, "Start running jobs",
		logger.IntField("job_count", len(jobs)),
		logger.IntField("max_concurrency", cap(s.semaphore)),
	)

	for _, job := range jobs {
		if ctx.Err() != nil {
			s.log.WarnContext(ctx, "Job execution cancelled", logger.ErrorField(ctx.Err()))
			return nil
		}

		if err := s.executeJob(ctx, job); err != nil {
			s.log.ErrorContext(ctx, "Failed to execute job",
				logger.ErrorField(err),
				logger.IntField("job_id", int(job.JobID)),
				logger.IntField("schedule_id", int(job.ID)),
				logger.StringField("job_name", job.Job.Name),
				logger.StringField("job_type", job.Job.Type),
			)
			continue
		}

		s.log.InfoContext(ctx, "Job dispatched",
			logger.IntField("job_id", int(job.JobID)),
			logger.IntField("schedule_id", int(job.ID)),
			logger.StringField("job_name", job.Job.Name),
		)
	}

	return nil
}

func (s *schedulerService) executeJob(ctx context.Context, task model.TaskSchedule) error {
	s.log.DebugContext(ctx, "Executing job",
		logger.IntField("job_id", int(task.JobID)),
		logger.IntField("schedule_id", int(task.ID)),
		logger.StringField("job_name", task.Job.Name),
		logger.StringField("job_type", task.Job.Type),
		logger.IntField("timeout", task.Job.Timeout),
		logger.IntField("active_concurrency", len(s.semaphore)),
		logger.IntField("max_concurrency", cap(s.semaphore)),
	)

	cronSchedule, err := s.cronParser.Parse(task.CronExpression)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to parse cron expression", logger.ErrorField(err), logger.IntField("schedule_id", int(task.ID)))
		return fmt.Errorf("failed to parse cron expression: %w", err)
	}

	// no history row until a slot is free, so a cancelled wait leaves nothing behind
	select {
	case s.semaphore <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	now := utils.TimeNow()
	history := &model.TaskExecutionHistory{
		JobID:      task.JobID,
		ScheduleID: task.ID,
		Status:     model.StatusRunning,
		StartedAt:  now,
	}
	if err := s.jobRepo.CreateTaskExecutionHistory(ctx, history); err != nil {
		<-s.semaphore
		s.log.ErrorContext(ctx, "Failed to create task history", logger.ErrorField(err), logger.IntField("schedule_id", int(task.ID)))
		return fmt.Errorf("failed to create task history: %w", err)
	}

	timeout := time.Duration(task.Job.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}

	s.running.Add(1)
	utils.GoSafe(func() {
		defer s.running.Done()
		defer func() {
			<-s.semaphore
		}()

		newCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := s.taskExecutor.Execute(newCtx, history); err != nil {
			s.log.ErrorContext(newCtx, "Failed to execute task", logger.ErrorField(err), logger.IntField("schedule_id", int(task.ID)))
		}
	})

	task.LastExecution = sql.NullTime{Time: now, Valid: true}
	task.NextExecution = sql.NullTime{Time: cronSchedule.Next(now), Valid: true}

	if err := s.jobRepo.UpdateTaskSchedule(ctx, &task); err != nil {
		s.log.ErrorContext(ctx, "Failed to update task schedule", logger.ErrorField(err), logger.IntField("schedule_id", int(task.ID)))
		return fmt.Errorf("failed to update task schedule: %w", err)
	}
	return nil
}

// Wait blocks until every dispatched task has finished.
func (s *schedulerService) Wait() {
	s.running.Wait()
}

func (s *schedulerService) GetJobSchedule(ctx context.Context, param model.GetJobParam) ([]model.Job, error) {
	return s.jobRepo.Get(ctx, &param)
}

func (s *schedulerService) RunJobTask(ctx context.Context, jobID uint) error {
	s.log.InfoContext(ctx, "Running job task", logger.IntField("job_id", int(jobID)))
	job, err := s.jobRepo.Get(ctx, &model.GetJobParam{IDs: []uint{jobID}})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to find job", logger.ErrorField(err), logger.IntField("job_id", int(jobID)))
		return fmt.Errorf("failed to find job: %w", err)
	}
	if len(job) == 0 {
		return fmt.Errorf("%w: %d", dto.ErrJobNotFound, jobID)
	}
	if len(job[0].Schedules) == 0 {
		s.log.ErrorContext(ctx, "Schedule not found", logger.IntField("job_id", int(jobID)))
		return fmt.Errorf("%w: job %d has no schedule", dto.ErrJobNotFound, jobID)
	}

	return s.executeJob(ctx, job[0].Schedules[0])
}

// EnsureDefaultJobs inserts DefaultJobs when the jobs table is empty.
// Postgres deployments get the same rows from the SQL migrations.
func (s *schedulerService) EnsureDefaultJobs(ctx context.Context) error {
	count, err := s.jobRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count jobs: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, job := range DefaultJobs() {
		job := job
		for i := range job.Schedules {
			sched, err := s.cronParser.Parse(job.Schedules[i].CronExpression)
			if err != nil {
				return fmt.Errorf("invalid cron expression for %s: %w", job.Name, err)
			}
			job.Schedules[i].NextExecution = sql.NullTime{Time: sched.Next(utils.TimeNow()), Valid: true}
		}
		if err := s.jobRepo.CreateWithSchedules(ctx, &job); err != nil {
			return fmt.Errorf("failed to create job %s: %w", job.Name, err)
		}
		s.log.InfoContext(ctx, "Default job created", logger.StringField("job_name", job.Name))
	}
	return nil
}
