package repository

import (
	"context"
	"etf-dashboard/internal/model"
	"etf-dashboard/pkg/utils"

	"gorm.io/gorm"
)

// FundDetailRepository stores the 1:1 rows hanging off a fund. Every write
// replaces the previous row; a nil value only clears it.
type FundDetailRepository interface {
	ReplaceFundOperations(ctx context.Context, etfID uint, ops *model.FundOperations, opts ...utils.DBOption) error
	ReplaceEquityMetrics(ctx context.Context, etfID uint, metrics *model.EquityMetrics, opts ...utils.DBOption) error
	ReplaceFundOverview(ctx context.Context, etfID uint, overview *model.FundOverview, opts ...utils.DBOption) error
}

type fundDetailRepository struct {
	db *gorm.DB
}

func NewFundDetailRepository(db *gorm.DB) FundDetailRepository {
	return &fundDetailRepository{db: db}
}

func replaceOne[T any](db *gorm.DB, etfID uint, row *T) error {
	var zero T
	if err := db.Where("etf_id = ?", etfID).Delete(&zero).Error; err != nil {
		return err
	}
	if row == nil {
		return nil
	}
	return db.Create(row).Error
}

func (r *fundDetailRepository) ReplaceFundOperations(ctx context.Context, etfID uint, ops *model.FundOperations, opts ...utils.DBOption) error {
	if ops != nil {
		ops.ID = 0
		ops.EtfID = etfID
	}
	return replaceOne(utils.ApplyOptions(r.db.WithContext(ctx), opts...), etfID, ops)
}

func (r *fundDetailRepository) ReplaceEquityMetrics(ctx context.Context, etfID uint, metrics *model.EquityMetrics, opts ...utils.DBOption) error {
	if metrics != nil {
		metrics.ID = 0
		metrics.EtfID = etfID
	}
	return replaceOne(utils.ApplyOptions(r.db.WithContext(ctx), opts...), etfID, metrics)
}

func (r *fundDetailRepository) ReplaceFundOverview(ctx context.Context, etfID uint, overview *model.FundOverview, opts ...utils.DBOption) error {
	if overview != nil {
		overview.ID = 0
		overview.EtfID = etfID
	}
	return replaceOne(utils.ApplyOptions(r.db.WithContext(ctx), opts...), etfID, overview)
}
