package service

import (
	"context"
	"errors"
	"etf-dashboard/internal/dto"
	"etf-dashboard/internal/helper"
	"etf-dashboard/internal/model"
	"etf-dashboard/internal/repository"
	"etf-dashboard/pkg/logger"
	"etf-dashboard/pkg/utils"
	"fmt"
)

const summaryTopN = 5

type FundService interface {
	ListFunds(ctx context.Context) ([]dto.FundListItem, error)
	GetFund(ctx context.Context, key model.FundKey) (*dto.FundDetail, error)
	GetHoldings(ctx context.Context, key model.FundKey) ([]dto.HoldingResponse, error)
	GetSectorAllocations(ctx context.Context, key model.FundKey) ([]dto.SectorAllocationResponse, error)
	GetFundSummary(ctx context.Context, key model.FundKey) (*dto.FundSummary, error)
	InsertFund(ctx context.Context, req dto.InsertFundRequest) (*dto.InsertFundResult, error)
}

type fundService struct {
	log                  *logger.Logger
	etfRepo              repository.ETFRepository
	holdingRepo          repository.HoldingRepository
	sectorAllocationRepo repository.SectorAllocationRepository
	ingestionService     IngestionService
}

func NewFundService(log *logger.Logger, repo *repository.Repository, ingestionService IngestionService) FundService {
	return &fundService{
		log:                  log,
		etfRepo:              repo.ETFRepo,
		holdingRepo:          repo.HoldingRepo,
		sectorAllocationRepo: repo.SectorAllocationRepo,
		ingestionService:     ingestionService,
	}
}

func (s *fundService) ListFunds(ctx context.Context) ([]dto.FundListItem, error) {
	etfs, err := s.etfRepo.List(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to list funds", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to list funds: %w", err)
	}

	items := make([]dto.FundListItem, 0, len(etfs))
	for _, etf := range etfs {
		items = append(items, dto.NewFundListItem(etf))
	}
	return items, nil
}

// findFund resolves key or returns ErrFundNotFound.
func (s *fundService) findFund(ctx context.Context, key model.FundKey, opts ...utils.DBOption) (*model.ETF, error) {
	etf, err := s.etfRepo.FindByKey(ctx, key, opts...)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to find fund", logger.ErrorField(err), logger.StringField("fund", key.String()))
		return nil, fmt.Errorf("failed to find fund %s: %w", key, err)
	}
	if etf == nil {
		return nil, fmt.Errorf("%w: %s", dto.ErrFundNotFound, key)
	}
	return etf, nil
}

func (s *fundService) GetFund(ctx context.Context, key model.FundKey) (*dto.FundDetail, error) {
	etf, err := s.findFund(ctx, key,
		utils.WithPreload("FundOverview"),
		utils.WithPreload("FundOperations"),
		utils.WithPreload("EquityMetrics"),
	)
	if err != nil {
		return nil, err
	}
	return dto.NewFundDetail(*etf), nil
}

func (s *fundService) GetHoldings(ctx context.Context, key model.FundKey) ([]dto.HoldingResponse, error) {
	etf, err := s.findFund(ctx, key)
	if err != nil {
		return nil, err
	}

	holdings, err := s.holdingRepo.GetByEtfID(ctx, etf.ID)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get holdings", logger.ErrorField(err), logger.StringField("symbol", etf.Symbol))
		return nil, fmt.Errorf("failed to get holdings: %w", err)
	}
	return dto.NewHoldingResponses(etf.Symbol, holdings), nil
}

func (s *fundService) GetSectorAllocations(ctx context.Context, key model.FundKey) ([]dto.SectorAllocationResponse, error) {
	etf, err := s.findFund(ctx, key)
	if err != nil {
		return nil, err
	}

	sectors, err := s.sectorAllocationRepo.GetByEtfID(ctx, etf.ID)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get sector allocations", logger.ErrorField(err), logger.StringField("symbol", etf.Symbol))
		return nil, fmt.Errorf("failed to get sector allocations: %w", err)
	}
	return dto.NewSectorAllocationResponses(etf.Symbol, sectors), nil
}

func (s *fundService) GetFundSummary(ctx context.Context, key model.FundKey) (*dto.FundSummary, error) {
	fund, err := s.GetFund(ctx, key)
	if err != nil {
		return nil, err
	}
	holdings, err := s.GetHoldings(ctx, key)
	if err != nil {
		return nil, err
	}
	sectors, err := s.GetSectorAllocations(ctx, key)
	if err != nil {
		return nil, err
	}

	return &dto.FundSummary{
		Fund:          fund,
		TopHoldings:   holdings[:min(summaryTopN, len(holdings))],
		TopSectors:    sectors[:min(summaryTopN, len(sectors))],
		TotalHoldings: len(holdings),
		TotalSectors:  len(sectors),
	}, nil
}

// InsertFund validates the symbol, refuses funds already stored and ingests
// the rest. The result always carries a message fit for the caller.
func (s *fundService) InsertFund(ctx context.Context, req dto.InsertFundRequest) (*dto.InsertFundResult, error) {
	symbol, err := helper.NormalizeSymbol(req.Symbol)
	if err != nil {
		return &dto.InsertFundResult{Message: fmt.Sprintf("Invalid symbol: %v", err)}, err
	}

	existing, err := s.GetFund(ctx, model.FundKey{Symbol: symbol})
	if err != nil && !errors.Is(err, dto.ErrFundNotFound) {
		return nil, err
	}
	if existing != nil {
		return &dto.InsertFundResult{
			Message: fmt.Sprintf("Fund %s already exists", symbol),
			Fund:    existing,
		}, fmt.Errorf("%w: %s", dto.ErrFundAlreadyExists, symbol)
	}

	includeHistory := true
	if req.IncludeHistory != nil {
		includeHistory = *req.IncludeHistory
	}

	if _, err := s.ingestionService.IngestSymbol(ctx, symbol, includeHistory); err != nil {
		if isProviderMiss(err) {
			return &dto.InsertFundResult{
				Message: fmt.Sprintf("Invalid symbol '%s'. Please ensure this is a valid ETF or mutual fund symbol.", symbol),
			}, err
		}
		s.log.ErrorContext(ctx, "Failed to insert fund", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil, fmt.Errorf("failed to insert fund %s: %w", symbol, err)
	}

	fund, err := s.GetFund(ctx, model.FundKey{Symbol: symbol})
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "Fund inserted", logger.StringField("symbol", symbol))
	return &dto.InsertFundResult{
		Success: true,
		Message: fmt.Sprintf("Successfully inserted fund %s", symbol),
		Fund:    fund,
	}, nil
}
