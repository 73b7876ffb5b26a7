package service

import (
	"context"
	"etf-dashboard/internal/dto"
	"etf-dashboard/internal/helper"
	"etf-dashboard/internal/model"
	"etf-dashboard/internal/repository"
	"etf-dashboard/pkg/logger"
	"etf-dashboard/pkg/utils"
	"fmt"
	"math/rand"
	"time"
)

const (
	SeedModeDemo  = "demo"
	SeedModeReal  = "real"
	SeedModeClear = "clear"

	demoPriceDays  = 30
	demoStartPrice = 100.0
)

type demoFund struct {
	symbol       string
	name         string
	category     string
	exchange     string
	expenseRatio float64
	netAssets    float64
	summary      string
}

var demoFunds = []demoFund{
	{"SPY", "SPDR S&P 500 ETF Trust", "Large Blend", "NYSE", 0.0945, 400e9,
		"The SPDR S&P 500 ETF Trust seeks to provide investment results that correspond to the price and yield performance of the S&P 500 Index."},
	{"QQQ", "Invesco QQQ Trust", "Large Growth", "NASDAQ", 0.20, 200e9,
		"The Invesco QQQ Trust tracks the Nasdaq-100 Index, which includes 100 of the largest domestic and international non-financial companies listed on the Nasdaq Stock Market."},
	{"VTI", "Vanguard Total Stock Market ETF", "Large Blend", "NYSE", 0.03, 350e9,
		"The Vanguard Total Stock Market ETF seeks to track the performance of the CRSP US Total Market Index, which measures the investment return of the overall stock market."},
	{"BND", "Vanguard Total Bond Market ETF", "Intermediate Core Bond", "NYSE", 0.035, 100e9,
		"The Vanguard Total Bond Market ETF seeks to track the performance of the Bloomberg Aggregate Float Adjusted Index."},
	{"VEA", "Vanguard FTSE Developed Markets ETF", "Foreign Large Blend", "NYSE", 0.05, 80e9,
		"The Vanguard FTSE Developed Markets ETF seeks to track the performance of the FTSE Developed All Cap ex US Index."},
}

type SeedService interface {
	Seed(ctx context.Context, mode string) (*dto.SeedReport, error)
}

type seedService struct {
	log              *logger.Logger
	etfRepo          repository.ETFRepository
	priceHistoryRepo repository.PriceHistoryRepository
	unitOfWork       repository.UnitOfWork
	ingestionService IngestionService
	rnd              *rand.Rand
}

func NewSeedService(log *logger.Logger, repo *repository.Repository, ingestionService IngestionService) SeedService {
	return &seedService{
		log:              log,
		etfRepo:          repo.ETFRepo,
		priceHistoryRepo: repo.PriceHistoryRepo,
		unitOfWork:       repo.UnitOfWork,
		ingestionService: ingestionService,
		rnd:              rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *seedService) Seed(ctx context.Context, mode string) (*dto.SeedReport, error) {
	switch mode {
	case SeedModeDemo:
		return s.seedDemo(ctx)
	case SeedModeReal:
		return s.seedReal(ctx)
	case SeedModeClear:
		return s.clear(ctx)
	default:
		return nil, fmt.Errorf("unknown seed mode %q, expected %s, %s or %s", mode, SeedModeDemo, SeedModeReal, SeedModeClear)
	}
}

func (s *seedService) seedDemo(ctx context.Context) (*dto.SeedReport, error) {
	report := &dto.SeedReport{Mode: SeedModeDemo}

	err := s.unitOfWork.Run(func(opts ...utils.DBOption) error {
		for _, f := range demoFunds {
			etf, err := s.etfRepo.FindByKey(ctx, model.FundKey{Symbol: f.symbol}, opts...)
			if err != nil {
				return err
			}
			if etf == nil {
				etf = &model.ETF{
					Symbol:       f.symbol,
					Name:         f.name,
					Category:     utils.ToPointer(f.category),
					ExpenseRatio: utils.ToPointer(f.expenseRatio),
					NetAssets:    utils.ToPointer(f.netAssets),
					Summary:      utils.ToPointer(f.summary),
					Exchange:     utils.ToPointer(f.exchange),
					Currency:     utils.ToPointer("USD"),
					Country:      utils.ToPointer("US"),
				}
				if err := s.etfRepo.Create(ctx, etf, opts...); err != nil {
					return fmt.Errorf("failed to create demo fund %s: %w", f.symbol, err)
				}
				report.FundsCreated++
				s.log.InfoContext(ctx, "Added demo fund", logger.StringField("symbol", f.symbol))
			}

			count, err := s.priceHistoryRepo.Count(ctx, etf.ID, opts...)
			if err != nil {
				return err
			}
			if count > 0 {
				s.log.InfoContext(ctx, "Demo prices already present, skipping", logger.StringField("symbol", f.symbol))
				continue
			}

			prices := s.randomWalk(etf.ID, utils.Today())
			helper.ComputeReturns(prices)
			inserted, err := s.priceHistoryRepo.InsertMissing(ctx, prices, opts...)
			if err != nil {
				return fmt.Errorf("failed to insert demo prices for %s: %w", f.symbol, err)
			}
			report.PricesCreated += int(inserted)
		}
		return nil
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to seed demo data", logger.ErrorField(err))
		return nil, err
	}
	return report, nil
}

// randomWalk builds demoPriceDays daily bars ending at end, each close moving
// at most 2% from the previous one.
func (s *seedService) randomWalk(etfID uint, end time.Time) []model.ETFPriceHistory {
	prices := make([]model.ETFPriceHistory, 0, demoPriceDays)
	price := demoStartPrice
	for i := demoPriceDays - 1; i >= 0; i-- {
		price *= 1 + s.uniform(-0.02, 0.02)
		prices = append(prices, model.ETFPriceHistory{
			EtfID:      etfID,
			Date:       end.AddDate(0, 0, -i),
			OpenPrice:  utils.ToPointer(helper.Round(price*s.uniform(0.995, 1.005), 4)),
			HighPrice:  utils.ToPointer(helper.Round(price*s.uniform(1.005, 1.02), 4)),
			LowPrice:   utils.ToPointer(helper.Round(price*s.uniform(0.98, 0.995), 4)),
			ClosePrice: helper.Round(price, 4),
			Volume:     utils.ToPointer(int64(1_000_000 + s.rnd.Intn(9_000_001))),
		})
	}
	return prices
}

func (s *seedService) uniform(lo, hi float64) float64 {
	return lo + s.rnd.Float64()*(hi-lo)
}

func (s *seedService) seedReal(ctx context.Context) (*dto.SeedReport, error) {
	ingest := s.ingestionService.IngestSymbols(ctx, s.ingestionService.PopularSymbols(), true)
	for _, r := range ingest.Results {
		if !r.Success {
			s.log.WarnContext(ctx, "Failed to seed fund", logger.StringField("symbol", r.Symbol), logger.StringField("error", r.Error))
		}
	}
	return &dto.SeedReport{Mode: SeedModeReal, FundsCreated: ingest.Succeeded}, nil
}

func (s *seedService) clear(ctx context.Context) (*dto.SeedReport, error) {
	var deleted int64
	err := s.unitOfWork.Run(func(opts ...utils.DBOption) error {
		var err error
		deleted, err = s.etfRepo.DeleteAll(ctx, opts...)
		return err
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to clear database", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to clear database: %w", err)
	}
	s.log.InfoContext(ctx, "Database cleared", logger.Int64Field("funds_deleted", deleted))
	return &dto.SeedReport{Mode: SeedModeClear, FundsDeleted: deleted}, nil
}
