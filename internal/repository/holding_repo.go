package repository

import (
	"context"
	"etf-dashboard/internal/model"
	"etf-dashboard/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HoldingRepository interface {
	GetByEtfID(ctx context.Context, etfID uint, opts ...utils.DBOption) ([]model.ETFHolding, error)
	Replace(ctx context.Context, etfID uint, holdings []model.ETFHolding, opts ...utils.DBOption) error
}

type holdingRepository struct {
	db *gorm.DB
}

func NewHoldingRepository(db *gorm.DB) HoldingRepository {
	return &holdingRepository{db: db}
}

// GetByEtfID returns every holding row ordered by as_of_date desc, weight desc.
func (r *holdingRepository) GetByEtfID(ctx context.Context, etfID uint, opts ...utils.DBOption) ([]model.ETFHolding, error) {
	var holdings []model.ETFHolding
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("etf_id = ?", etfID).
		Order("as_of_date DESC").
		Order("weight DESC").
		Find(&holdings).Error
	if err != nil {
		return nil, err
	}
	return holdings, nil
}

// Replace deletes the fund's holdings and inserts the given set. Run it
// inside a UnitOfWork so readers never see an empty list.
func (r *holdingRepository) Replace(ctx context.Context, etfID uint, holdings []model.ETFHolding, opts ...utils.DBOption) error {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if err := db.Where("etf_id = ?", etfID).Delete(&model.ETFHolding{}).Error; err != nil {
		return err
	}
	if len(holdings) == 0 {
		return nil
	}
	for i := range holdings {
		holdings[i].EtfID = etfID
	}
	return db.Omit(clause.Associations).Create(&holdings).Error
}
