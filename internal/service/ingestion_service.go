package service

import (
	"context"
	"errors"
	"etf-dashboard/config"
	"etf-dashboard/internal/dto"
	"etf-dashboard/internal/helper"
	"etf-dashboard/internal/model"
	"etf-dashboard/internal/repository"
	"etf-dashboard/pkg/logger"
	"etf-dashboard/pkg/utils"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const chartIntervalDaily = "1d"

type IngestionService interface {
	IngestSymbol(ctx context.Context, symbol string, includeHistory bool) (*model.ETF, error)
	IngestSymbols(ctx context.Context, symbols []string, includeHistory bool) dto.IngestReport
	PopularSymbols() []string
}

type ingestionService struct {
	cfg                  *config.Config
	log                  *logger.Logger
	yahooFinanceRepo     repository.YahooFinanceRepository
	etfRepo              repository.ETFRepository
	priceHistoryRepo     repository.PriceHistoryRepository
	holdingRepo          repository.HoldingRepository
	sectorAllocationRepo repository.SectorAllocationRepository
	fundDetailRepo       repository.FundDetailRepository
	unitOfWork           repository.UnitOfWork
}

func NewIngestionService(cfg *config.Config, log *logger.Logger, repo *repository.Repository) IngestionService {
	return &ingestionService{
		cfg:                  cfg,
		log:                  log,
		yahooFinanceRepo:     repo.YahooFinanceRepo,
		etfRepo:              repo.ETFRepo,
		priceHistoryRepo:     repo.PriceHistoryRepo,
		holdingRepo:          repo.HoldingRepo,
		sectorAllocationRepo: repo.SectorAllocationRepo,
		fundDetailRepo:       repo.FundDetailRepo,
		unitOfWork:           repo.UnitOfWork,
	}
}

func (s *ingestionService) PopularSymbols() []string {
	return s.cfg.Ingestion.PopularSymbols
}

// IngestSymbol pulls everything the provider has for symbol and upserts it.
// Only a failure of the basic info step fails the symbol; the remaining
// steps log a warning and move on.
func (s *ingestionService) IngestSymbol(ctx context.Context, symbol string, includeHistory bool) (*model.ETF, error) {
	log := s.log.With(logger.StringField("symbol", symbol))
	log.InfoContext(ctx, "Ingesting fund", logger.BoolField("include_history", includeHistory))

	info, err := s.yahooFinanceRepo.GetFundInfo(ctx, symbol)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch fund info", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to fetch fund info for %s: %w", symbol, err)
	}

	etf, err := s.upsertBasicInfo(ctx, symbol, info)
	if err != nil {
		log.ErrorContext(ctx, "Failed to store basic info", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to store basic info for %s: %w", symbol, err)
	}

	if includeHistory {
		if err := s.ingestPriceHistory(ctx, etf); err != nil {
			log.WarnContext(ctx, "Failed to ingest price history", logger.ErrorField(err))
		}
	}

	asOf := utils.Today()
	if err := s.unitOfWork.Run(func(opts ...utils.DBOption) error {
		return s.holdingRepo.Replace(ctx, etf.ID, mapHoldings(info.Funds, asOf), opts...)
	}); err != nil {
		log.WarnContext(ctx, "Failed to store holdings", logger.ErrorField(err))
	}

	if err := s.unitOfWork.Run(func(opts ...utils.DBOption) error {
		return s.sectorAllocationRepo.Replace(ctx, etf.ID, mapSectors(info.Funds, asOf), opts...)
	}); err != nil {
		log.WarnContext(ctx, "Failed to store sector allocations", logger.ErrorField(err))
	}

	if err := s.fundDetailRepo.ReplaceFundOperations(ctx, etf.ID, mapFundOperations(info.Funds, asOf)); err != nil {
		log.WarnContext(ctx, "Failed to store fund operations", logger.ErrorField(err))
	}
	if err := s.fundDetailRepo.ReplaceEquityMetrics(ctx, etf.ID, mapEquityMetrics(info.Funds, asOf)); err != nil {
		log.WarnContext(ctx, "Failed to store equity metrics", logger.ErrorField(err))
	}
	if err := s.fundDetailRepo.ReplaceFundOverview(ctx, etf.ID, mapFundOverview(info.Funds)); err != nil {
		log.WarnContext(ctx, "Failed to store fund overview", logger.ErrorField(err))
	}

	log.InfoContext(ctx, "Fund ingested", logger.IntField("etf_id", int(etf.ID)))
	return etf, nil
}

func (s *ingestionService) upsertBasicInfo(ctx context.Context, symbol string, info *dto.FundInfo) (*model.ETF, error) {
	existing, err := s.etfRepo.FindByKey(ctx, model.FundKey{Symbol: symbol})
	if err != nil {
		return nil, err
	}

	etf := existing
	if etf == nil {
		etf = &model.ETF{Symbol: symbol}
	}
	applyQuoteInfo(etf, info.Info)

	// the quote rarely carries these for funds; the fund profile does
	if profile := info.Funds.FundProfile; profile != nil {
		if etf.Category == nil {
			etf.Category = nonEmpty(profile.CategoryName)
		}
		if etf.Family == nil {
			etf.Family = nonEmpty(profile.Family)
		}
		if etf.LegalType == nil {
			etf.LegalType = nonEmpty(profile.LegalType)
		}
		if etf.ExpenseRatio == nil && profile.FeesExpensesInvestment != nil {
			etf.ExpenseRatio = profile.FeesExpensesInvestment.AnnualReportExpenseRatio.Raw
		}
	}

	now := utils.TimeNow()
	etf.UpdatedAt = now
	etf.LastDataUpdate = &now

	if existing == nil {
		err = s.etfRepo.Create(ctx, etf)
	} else {
		err = s.etfRepo.Update(ctx, etf)
	}
	if err != nil {
		return nil, err
	}
	return etf, nil
}

// ingestPriceHistory stores bars for dates not seen yet and recomputes the
// return columns over the whole stored series.
func (s *ingestionService) ingestPriceHistory(ctx context.Context, etf *model.ETF) error {
	historyRange := s.cfg.YahooFinance.HistoryRange
	if historyRange == "" {
		historyRange = "5y"
	}

	chart, err := s.yahooFinanceRepo.GetChart(ctx, etf.Symbol, historyRange, chartIntervalDaily)
	if err != nil {
		return err
	}
	if len(chart.Bars) == 0 {
		s.log.WarnContext(ctx, "No historical data found", logger.StringField("symbol", etf.Symbol))
		return nil
	}

	return s.unitOfWork.Run(func(opts ...utils.DBOption) error {
		inserted, err := s.priceHistoryRepo.InsertMissing(ctx, mapPriceBars(etf.ID, chart.Bars), opts...)
		if err != nil {
			return fmt.Errorf("failed to insert prices: %w", err)
		}

		prices, err := s.priceHistoryRepo.Get(ctx, model.GetPriceHistoryParam{EtfID: etf.ID}, opts...)
		if err != nil {
			return fmt.Errorf("failed to load stored prices: %w", err)
		}
		helper.ComputeReturns(prices)
		if err := s.priceHistoryRepo.UpdateReturns(ctx, prices, opts...); err != nil {
			return fmt.Errorf("failed to update returns: %w", err)
		}

		s.log.InfoContext(ctx, "Price history ingested",
			logger.StringField("symbol", etf.Symbol),
			logger.Int64Field("inserted", inserted),
			logger.IntField("total", len(prices)),
		)
		return nil
	})
}

// IngestSymbols ingests every symbol with at most ingestion.max_concurrency
// in flight. One symbol failing never stops the others.
func (s *ingestionService) IngestSymbols(ctx context.Context, symbols []string, includeHistory bool) dto.IngestReport {
	runID := uuid.NewString()
	symbols = utils.UniqueStrings(symbols)
	report := dto.IngestReport{
		RunID:   runID,
		Total:   len(symbols),
		Results: make([]dto.IngestResult, len(symbols)),
	}

	s.log.InfoContext(ctx, "Starting ingestion run",
		logger.StringField("run_id", runID),
		logger.StringsField("symbols", symbols),
	)

	limit := s.cfg.Ingestion.MaxConcurrency
	if limit <= 0 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, raw := range symbols {
		i, raw := i, raw
		g.Go(func() error {
			result := dto.IngestResult{Symbol: raw}
			symbol, err := helper.NormalizeSymbol(raw)
			if err == nil {
				result.Symbol = symbol
				var etf *model.ETF
				etf, err = s.IngestSymbol(gctx, symbol, includeHistory)
				if err == nil {
					result.EtfID = etf.ID
				}
			}
			if err != nil {
				result.Error = err.Error()
			} else {
				result.Success = true
			}

			report.Results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range report.Results {
		if r.Success {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	s.log.InfoContext(ctx, "Ingestion run finished",
		logger.StringField("run_id", runID),
		logger.IntField("succeeded", report.Succeeded),
		logger.IntField("failed", report.Failed),
	)
	return report
}

// isProviderMiss reports whether err means the provider does not know the symbol.
func isProviderMiss(err error) bool {
	return errors.Is(err, dto.ErrSymbolNotAvailable)
}
