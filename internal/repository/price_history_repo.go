package repository

import (
	"context"
	"errors"
	"etf-dashboard/internal/model"
	"etf-dashboard/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const priceInsertBatchSize = 500

type PriceHistoryRepository interface {
	Get(ctx context.Context, param model.GetPriceHistoryParam, opts ...utils.DBOption) ([]model.ETFPriceHistory, error)
	GetLatest(ctx context.Context, etfID uint, opts ...utils.DBOption) (*model.ETFPriceHistory, error)
	Count(ctx context.Context, etfID uint, opts ...utils.DBOption) (int64, error)
	InsertMissing(ctx context.Context, prices []model.ETFPriceHistory, opts ...utils.DBOption) (int64, error)
	UpdateReturns(ctx context.Context, prices []model.ETFPriceHistory, opts ...utils.DBOption) error
}

type priceHistoryRepository struct {
	db *gorm.DB
}

func NewPriceHistoryRepository(db *gorm.DB) PriceHistoryRepository {
	return &priceHistoryRepository{db: db}
}

// Get returns the series ordered by date ascending, bounded by the optional
// inclusive start and end dates.
func (r *priceHistoryRepository) Get(ctx context.Context, param model.GetPriceHistoryParam, opts ...utils.DBOption) ([]model.ETFPriceHistory, error) {
	var prices []model.ETFPriceHistory
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("etf_id = ?", param.EtfID)
	if param.Start != nil {
		db = db.Where("date >= ?", *param.Start)
	}
	if param.End != nil {
		db = db.Where("date <= ?", *param.End)
	}

	if err := db.Order("date ASC").Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// GetLatest returns the most recent row, or (nil, nil) when there is none.
func (r *priceHistoryRepository) GetLatest(ctx context.Context, etfID uint, opts ...utils.DBOption) (*model.ETFPriceHistory, error) {
	var price model.ETFPriceHistory
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("etf_id = ?", etfID).
		Order("date DESC").
		First(&price).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &price, nil
}

func (r *priceHistoryRepository) Count(ctx context.Context, etfID uint, opts ...utils.DBOption) (int64, error) {
	var count int64
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.ETFPriceHistory{}).
		Where("etf_id = ?", etfID).
		Count(&count).Error
	return count, err
}

// InsertMissing inserts the rows whose (etf_id, date) is not stored yet and
// leaves existing rows untouched. It returns the number of inserted rows.
func (r *priceHistoryRepository) InsertMissing(ctx context.Context, prices []model.ETFPriceHistory, opts ...utils.DBOption) (int64, error) {
	if len(prices) == 0 {
		return 0, nil
	}
	result := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "etf_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		CreateInBatches(&prices, priceInsertBatchSize)
	return result.RowsAffected, result.Error
}

func (r *priceHistoryRepository) UpdateReturns(ctx context.Context, prices []model.ETFPriceHistory, opts ...utils.DBOption) error {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	for _, p := range prices {
		err := db.Model(&model.ETFPriceHistory{}).
			Where("id = ?", p.ID).
			Updates(map[string]interface{}{
				"daily_return":      p.DailyReturn,
				"cumulative_return": p.CumulativeReturn,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
