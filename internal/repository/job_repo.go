package repository

import (
	"context"
	"errors"
	"etf-dashboard/internal/model"
	"etf-dashboard/pkg/utils"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JobRepository interface {
	FindJobsToSchedule(ctx context.Context, opts ...utils.DBOption) ([]model.TaskSchedule, error)
	CreateTaskExecutionHistory(ctx context.Context, history *model.TaskExecutionHistory, opts ...utils.DBOption) error
	UpdateTaskSchedule(ctx context.Context, schedule *model.TaskSchedule, opts ...utils.DBOption) error
	FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Job, error)
	UpdateTaskExecutionHistory(ctx context.Context, history *model.TaskExecutionHistory, opts ...utils.DBOption) error
	Get(ctx context.Context, param *model.GetJobParam, opts ...utils.DBOption) ([]model.Job, error)
	Count(ctx context.Context, opts ...utils.DBOption) (int64, error)
	CreateWithSchedules(ctx context.Context, job *model.Job, opts ...utils.DBOption) error
	DeleteTaskHistoryOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// FindJobsToSchedule finds all active schedules that are due now.
func (r *jobRepository) FindJobsToSchedule(ctx context.Context, opts ...utils.DBOption) ([]model.TaskSchedule, error) {
	var schedules []model.TaskSchedule
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("is_active = ? AND (next_execution IS NULL OR next_execution <= ?)", true, utils.TimeNow()).
		Order("id ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *jobRepository) CreateTaskExecutionHistory(ctx context.Context, history *model.TaskExecutionHistory, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(history).Error
}

func (r *jobRepository) UpdateTaskSchedule(ctx context.Context, schedule *model.TaskSchedule, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.TaskSchedule{}).
		Where("id = ?", schedule.ID).
		Updates(map[string]interface{}{
			"last_execution": schedule.LastExecution,
			"next_execution": schedule.NextExecution,
		}).Error
}

func (r *jobRepository) FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Job, error) {
	var job model.Job
	if err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).First(&job, id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) UpdateTaskExecutionHistory(ctx context.Context, history *model.TaskExecutionHistory, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Save(history).Error
}

func (r *jobRepository) Get(ctx context.Context, param *model.GetJobParam, opts ...utils.DBOption) ([]model.Job, error) {
	var jobs []model.Job
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Model(&model.Job{})
	if param.IsActive != nil {
		db = db.Where("EXISTS (SELECT 1 FROM task_schedules WHERE task_schedules.job_id = jobs.id AND task_schedules.is_active = ?)", *param.IsActive)
	}
	if len(param.IDs) > 0 {
		db = db.Where("jobs.id IN ?", param.IDs)
	}
	if param.Limit != nil {
		db = db.Limit(*param.Limit)
	}
	if param.WithTaskHistory != nil {
		db = db.Preload("Histories", func(db *gorm.DB) *gorm.DB {
			db = db.Order("created_at DESC")
			if param.WithTaskHistory.Limit != nil {
				db = db.Limit(*param.WithTaskHistory.Limit)
			}
			return db
		})
	}
	result := db.Preload("Schedules.Job").Order("jobs.id ASC").Find(&jobs)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return jobs, nil
}

func (r *jobRepository) Count(ctx context.Context, opts ...utils.DBOption) (int64, error) {
	var count int64
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Model(&model.Job{}).Count(&count).Error
	return count, err
}

// CreateWithSchedules inserts a job and the schedules listed on it.
func (r *jobRepository) CreateWithSchedules(ctx context.Context, job *model.Job, opts ...utils.DBOption) error {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	schedules := job.Schedules
	if err := db.Omit(clause.Associations).Create(job).Error; err != nil {
		return err
	}
	for i := range schedules {
		schedules[i].JobID = job.ID
		if err := db.Omit(clause.Associations).Create(&schedules[i]).Error; err != nil {
			return err
		}
	}
	job.Schedules = schedules
	return nil
}

func (r *jobRepository) DeleteTaskHistoryOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error) {
	result := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("created_at < ?", date).
		Delete(&model.TaskExecutionHistory{})
	return result.RowsAffected, result.Error
}
