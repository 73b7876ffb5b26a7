package service

import (
	"context"
	"etf-dashboard/internal/dto"
	"etf-dashboard/internal/helper"
	"etf-dashboard/internal/model"
	"etf-dashboard/internal/repository"
	"etf-dashboard/pkg/logger"
	"fmt"
)

const (
	recentHistorySize = 10
	smaShortPeriod    = 50
	smaLongPeriod     = 200
)

type PriceService interface {
	GetPriceHistory(ctx context.Context, key model.FundKey, param dto.GetPriceHistoryParam) ([]dto.PriceResponse, error)
	GetLatestPrice(ctx context.Context, key model.FundKey) (*dto.PriceResponse, error)
	GetPriceSummary(ctx context.Context, key model.FundKey) (*dto.PriceSummary, error)
}

type priceService struct {
	log              *logger.Logger
	etfRepo          repository.ETFRepository
	priceHistoryRepo repository.PriceHistoryRepository
}

func NewPriceService(log *logger.Logger, repo *repository.Repository) PriceService {
	return &priceService{
		log:              log,
		etfRepo:          repo.ETFRepo,
		priceHistoryRepo: repo.PriceHistoryRepo,
	}
}

func (s *priceService) findFund(ctx context.Context, key model.FundKey) (*model.ETF, error) {
	etf, err := s.etfRepo.FindByKey(ctx, key)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to find fund", logger.ErrorField(err), logger.StringField("fund", key.String()))
		return nil, fmt.Errorf("failed to find fund %s: %w", key, err)
	}
	if etf == nil {
		return nil, fmt.Errorf("%w: %s", dto.ErrFundNotFound, key)
	}
	return etf, nil
}

func (s *priceService) GetPriceHistory(ctx context.Context, key model.FundKey, param dto.GetPriceHistoryParam) ([]dto.PriceResponse, error) {
	etf, err := s.findFund(ctx, key)
	if err != nil {
		return nil, err
	}

	prices, err := s.priceHistoryRepo.Get(ctx, model.GetPriceHistoryParam{
		EtfID: etf.ID,
		Start: param.Start,
		End:   param.End,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get price history", logger.ErrorField(err), logger.StringField("symbol", etf.Symbol))
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}
	return dto.NewPriceResponses(etf.Symbol, prices), nil
}

func (s *priceService) GetLatestPrice(ctx context.Context, key model.FundKey) (*dto.PriceResponse, error) {
	etf, err := s.findFund(ctx, key)
	if err != nil {
		return nil, err
	}

	latest, err := s.priceHistoryRepo.GetLatest(ctx, etf.ID)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get latest price", logger.ErrorField(err), logger.StringField("symbol", etf.Symbol))
		return nil, fmt.Errorf("failed to get latest price: %w", err)
	}
	if latest == nil {
		return nil, fmt.Errorf("%w: %s", dto.ErrNoPriceData, key)
	}

	resp := dto.NewPriceResponse(etf.Symbol, *latest)
	return &resp, nil
}

func (s *priceService) GetPriceSummary(ctx context.Context, key model.FundKey) (*dto.PriceSummary, error) {
	etf, err := s.findFund(ctx, key)
	if err != nil {
		return nil, err
	}

	prices, err := s.priceHistoryRepo.Get(ctx, model.GetPriceHistoryParam{EtfID: etf.ID})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get price history", logger.ErrorField(err), logger.StringField("symbol", etf.Symbol))
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}

	summary := &dto.PriceSummary{
		FundSymbol:    etf.Symbol,
		FundName:      etf.Name,
		RecentHistory: []dto.PriceResponse{},
	}
	if len(prices) == 0 {
		return summary, nil
	}

	latest := dto.NewPriceResponse(etf.Symbol, prices[len(prices)-1])
	summary.LatestPrice = &latest
	summary.RecentHistory = dto.NewPriceResponses(etf.Symbol, prices[max(0, len(prices)-recentHistorySize):])

	closes := make([]float64, len(prices))
	for i, p := range prices {
		closes[i] = p.ClosePrice
	}
	low, high := helper.MinMax(closes)
	summary.PriceStatistics = dto.PriceStatistics{
		TotalRecords: len(prices),
		PriceRange:   &dto.PriceRange{Min: low, Max: high},
		DateRange: &dto.DateRange{
			Start: prices[0].Date.Format(dto.DateLayout),
			End:   prices[len(prices)-1].Date.Format(dto.DateLayout),
		},
	}
	if sma50 := helper.SMA(closes, smaShortPeriod); sma50 != nil {
		summary.PriceStatistics.MovingAverages = &dto.MovingAverages{
			SMA50:  sma50,
			SMA200: helper.SMA(closes, smaLongPeriod),
		}
	}
	return summary, nil
}
