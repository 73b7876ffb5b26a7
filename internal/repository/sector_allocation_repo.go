package repository

import (
	"context"
	"etf-dashboard/internal/model"
	"etf-dashboard/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SectorAllocationRepository interface {
	GetByEtfID(ctx context.Context, etfID uint, opts ...utils.DBOption) ([]model.SectorAllocation, error)
	Replace(ctx context.Context, etfID uint, sectors []model.SectorAllocation, opts ...utils.DBOption) error
}

type sectorAllocationRepository struct {
	db *gorm.DB
}

func NewSectorAllocationRepository(db *gorm.DB) SectorAllocationRepository {
	return &sectorAllocationRepository{db: db}
}

func (r *sectorAllocationRepository) GetByEtfID(ctx context.Context, etfID uint, opts ...utils.DBOption) ([]model.SectorAllocation, error) {
	var sectors []model.SectorAllocation
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("etf_id = ?", etfID).
		Order("as_of_date DESC").
		Order("allocation_percentage DESC").
		Find(&sectors).Error
	if err != nil {
		return nil, err
	}
	return sectors, nil
}

func (r *sectorAllocationRepository) Replace(ctx context.Context, etfID uint, sectors []model.SectorAllocation, opts ...utils.DBOption) error {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if err := db.Where("etf_id = ?", etfID).Delete(&model.SectorAllocation{}).Error; err != nil {
		return err
	}
	if len(sectors) == 0 {
		return nil
	}
	for i := range sectors {
		sectors[i].EtfID = etfID
	}
	return db.Omit(clause.Associations).Create(&sectors).Error
}
