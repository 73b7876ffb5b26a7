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
	"sort"

	"golang.org/x/sync/errgroup"
)

const (
	compareMinSymbols = 2
	compareMaxSymbols = 10
	compareBase       = 100.0
)

type CompareService interface {
	Compare(ctx context.Context, param dto.CompareParam) (*dto.CompareResult, error)
}

type compareService struct {
	log              *logger.Logger
	etfRepo          repository.ETFRepository
	priceHistoryRepo repository.PriceHistoryRepository
}

func NewCompareService(log *logger.Logger, repo *repository.Repository) CompareService {
	return &compareService{
		log:              log,
		etfRepo:          repo.ETFRepo,
		priceHistoryRepo: repo.PriceHistoryRepo,
	}
}

// Compare lines up the price series of several funds on a common base so
// they can be charted together.
func (s *compareService) Compare(ctx context.Context, param dto.CompareParam) (*dto.CompareResult, error) {
	symbols := make([]string, 0, len(param.Symbols))
	for _, raw := range param.Symbols {
		symbol, err := helper.NormalizeSymbol(raw)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, symbol)
	}
	symbols = utils.UniqueStrings(symbols)
	if len(symbols) < compareMinSymbols || len(symbols) > compareMaxSymbols {
		return nil, fmt.Errorf("%w: between %d and %d distinct symbols are required, got %d",
			dto.ErrInvalidCompare, compareMinSymbols, compareMaxSymbols, len(symbols))
	}

	interval := param.Interval
	if interval == "" {
		interval = dto.IntervalDaily
	}

	etfs, err := s.etfRepo.FindBySymbols(ctx, symbols)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to find funds", logger.ErrorField(err), logger.StringsField("symbols", symbols))
		return nil, fmt.Errorf("failed to find funds: %w", err)
	}
	bySymbol := make(map[string]model.ETF, len(etfs))
	for _, etf := range etfs {
		bySymbol[etf.Symbol] = etf
	}
	for _, symbol := range symbols {
		if _, ok := bySymbol[symbol]; !ok {
			return nil, fmt.Errorf("%w: %s", dto.ErrFundNotFound, symbol)
		}
	}

	daily := make([][]helper.PricePoint, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	for i, symbol := range symbols {
		i := i
		etf := bySymbol[symbol]
		g.Go(func() error {
			prices, err := s.priceHistoryRepo.Get(gctx, model.GetPriceHistoryParam{
				EtfID: etf.ID,
				Start: param.Start,
				End:   param.End,
			})
			if err != nil {
				return fmt.Errorf("failed to load prices for %s: %w", etf.Symbol, err)
			}
			points := make([]helper.PricePoint, 0, len(prices))
			for _, p := range prices {
				points = append(points, helper.PricePoint{Date: p.Date, Close: p.BasisPrice()})
			}
			daily[i] = points
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.ErrorContext(ctx, "Failed to load compare series", logger.ErrorField(err))
		return nil, err
	}

	result := &dto.CompareResult{
		Interval:    interval,
		Base:        compareBase,
		Series:      make([]dto.CompareSeries, 0, len(symbols)),
		Correlation: make(map[string]map[string]float64, len(symbols)),
	}
	for i, symbol := range symbols {
		result.Series = append(result.Series, buildCompareSeries(bySymbol[symbol], daily[i], interval))
	}

	for i, a := range symbols {
		result.Correlation[a] = map[string]float64{a: 1}
		for j, b := range symbols {
			if i == j {
				continue
			}
			if c := sharedDateCorrelation(daily[i], daily[j]); c != nil {
				result.Correlation[a][b] = *c
			}
		}
	}
	return result, nil
}

// buildCompareSeries charts daily resampled to interval. The stats always
// come from the daily series so they do not depend on the chart interval.
func buildCompareSeries(etf model.ETF, daily []helper.PricePoint, interval string) dto.CompareSeries {
	closes := pointCloses(daily)
	points := helper.Resample(daily, interval)
	normalized := helper.Normalize(pointCloses(points), compareBase)

	out := dto.CompareSeries{
		Symbol: etf.Symbol,
		Name:   etf.Name,
		Points: make([]dto.ComparePoint, 0, len(points)),
		Stats: dto.SeriesStats{
			TotalReturn:          helper.TotalReturn(closes),
			AnnualizedVolatility: helper.AnnualizedVolatility(helper.DailyReturns(closes)),
			MaxDrawdown:          helper.MaxDrawdown(closes),
			ObservationCount:     len(points),
		},
	}
	for i, p := range points {
		out.Points = append(out.Points, dto.ComparePoint{
			Date:       p.Date.Format(dto.DateLayout),
			Close:      p.Close,
			Normalized: normalized[i],
		})
	}
	if len(daily) > 0 {
		out.Stats.StartDate = daily[0].Date.Format(dto.DateLayout)
		out.Stats.EndDate = daily[len(daily)-1].Date.Format(dto.DateLayout)
	}
	return out
}

func pointCloses(points []helper.PricePoint) []float64 {
	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Close
	}
	return closes
}

// sharedDateCorrelation correlates the period returns of a and b over the
// dates both series have.
func sharedDateCorrelation(a, b []helper.PricePoint) *float64 {
	bByDate := make(map[string]float64, len(b))
	for _, p := range b {
		bByDate[p.Date.Format(dto.DateLayout)] = p.Close
	}

	type pair struct {
		date string
		a, b float64
	}
	var shared []pair
	for _, p := range a {
		key := p.Date.Format(dto.DateLayout)
		if v, ok := bByDate[key]; ok {
			shared = append(shared, pair{date: key, a: p.Close, b: v})
		}
	}
	sort.Slice(shared, func(i, j int) bool { return shared[i].date < shared[j].date })

	var ra, rb []float64
	for i := 1; i < len(shared); i++ {
		if shared[i-1].a == 0 || shared[i-1].b == 0 {
			continue
		}
		ra = append(ra, shared[i].a/shared[i-1].a-1)
		rb = append(rb, shared[i].b/shared[i-1].b-1)
	}
	return helper.Correlation(ra, rb)
}
