package repository

import (
	"context"
	"errors"
	"etf-dashboard/internal/model"
	"etf-dashboard/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ETFRepository interface {
	List(ctx context.Context, opts ...utils.DBOption) ([]model.ETF, error)
	ListSymbols(ctx context.Context, opts ...utils.DBOption) ([]string, error)
	FindByKey(ctx context.Context, key model.FundKey, opts ...utils.DBOption) (*model.ETF, error)
	FindBySymbols(ctx context.Context, symbols []string, opts ...utils.DBOption) ([]model.ETF, error)
	Create(ctx context.Context, etf *model.ETF, opts ...utils.DBOption) error
	Update(ctx context.Context, etf *model.ETF, opts ...utils.DBOption) error
	DeleteAll(ctx context.Context, opts ...utils.DBOption) (int64, error)
}

type etfRepository struct {
	db *gorm.DB
}

func NewETFRepository(db *gorm.DB) ETFRepository {
	return &etfRepository{db: db}
}

// List returns every fund ordered by symbol.
func (r *etfRepository) List(ctx context.Context, opts ...utils.DBOption) ([]model.ETF, error) {
	var etfs []model.ETF
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Order("symbol ASC").
		Find(&etfs).Error
	if err != nil {
		return nil, err
	}
	return etfs, nil
}

func (r *etfRepository) ListSymbols(ctx context.Context, opts ...utils.DBOption) ([]string, error) {
	var symbols []string
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.ETF{}).
		Order("symbol ASC").
		Pluck("symbol", &symbols).Error
	if err != nil {
		return nil, err
	}
	return symbols, nil
}

// FindByKey looks a fund up by id or symbol. A missing fund is (nil, nil).
func (r *etfRepository) FindByKey(ctx context.Context, key model.FundKey, opts ...utils.DBOption) (*model.ETF, error) {
	var etf model.ETF
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if key.Symbol != "" {
		db = db.Where("symbol = ?", key.Symbol)
	} else {
		db = db.Where("id = ?", key.ID)
	}

	if err := db.First(&etf).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &etf, nil
}

func (r *etfRepository) FindBySymbols(ctx context.Context, symbols []string, opts ...utils.DBOption) ([]model.ETF, error) {
	var etfs []model.ETF
	if len(symbols) == 0 {
		return etfs, nil
	}
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("symbol IN ?", symbols).
		Find(&etfs).Error
	if err != nil {
		return nil, err
	}
	return etfs, nil
}

func (r *etfRepository) Create(ctx context.Context, etf *model.ETF, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Omit(clause.Associations).
		Create(etf).Error
}

// Update writes every column, so provider fields that disappeared become NULL.
func (r *etfRepository) Update(ctx context.Context, etf *model.ETF, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Omit(clause.Associations).
		Save(etf).Error
}

// DeleteAll removes every fund together with its dependent rows.
func (r *etfRepository) DeleteAll(ctx context.Context, opts ...utils.DBOption) (int64, error) {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	dependents := []interface{}{
		&model.ETFPriceHistory{},
		&model.ETFHolding{},
		&model.SectorAllocation{},
		&model.FundOperations{},
		&model.EquityMetrics{},
		&model.FundOverview{},
	}
	for _, table := range dependents {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return 0, err
		}
	}
	result := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.ETF{})
	return result.RowsAffected, result.Error
}
