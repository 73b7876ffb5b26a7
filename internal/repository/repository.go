package repository

import (
	"etf-dashboard/config"
	"etf-dashboard/pkg/cache"
	"etf-dashboard/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	ETFRepo              ETFRepository
	PriceHistoryRepo     PriceHistoryRepository
	HoldingRepo          HoldingRepository
	SectorAllocationRepo SectorAllocationRepository
	FundDetailRepo       FundDetailRepository
	JobRepo              JobRepository
	YahooFinanceRepo     YahooFinanceRepository
	UnitOfWork           UnitOfWork
}

func NewRepository(cfg *config.Config, db *gorm.DB, inmemoryCache cache.Cache, log *logger.Logger) *Repository {
	return &Repository{
		ETFRepo:              NewETFRepository(db),
		PriceHistoryRepo:     NewPriceHistoryRepository(db),
		HoldingRepo:          NewHoldingRepository(db),
		SectorAllocationRepo: NewSectorAllocationRepository(db),
		FundDetailRepo:       NewFundDetailRepository(db),
		JobRepo:              NewJobRepository(db),
		YahooFinanceRepo:     NewYahooFinanceRepository(cfg, log, inmemoryCache),
		UnitOfWork:           NewUnitOfWork(db),
	}
}
