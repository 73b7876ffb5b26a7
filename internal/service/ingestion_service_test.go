package service

import (
	"context"
	"errors"
	"etf-dashboard/internal/dto"
	"etf-dashboard/internal/model"
	"etf-dashboard/pkg/logger"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fundInfoFixture(symbol string) *dto.FundInfo {
	return &dto.FundInfo{
		Symbol: symbol,
		Info: dto.QuoteInfo{
			"longName":           symbol + " Index Trust",
			"regularMarketPrice": 470.5,
			"exchange":           "PCX",
			"currency":           "USD",
			"totalAssets":        5.1e11,
		},
		Funds: dto.FundsData{
			TopHoldings: &dto.TopHoldingsModule{
				Holdings: []dto.TopHolding{
					{Symbol: "AAPL", HoldingName: "Apple Inc", HoldingPercent: dto.YahooValue{Raw: ptr(0.07)}},
					{Symbol: "MSFT", HoldingName: "Microsoft Corp", HoldingPercent: dto.YahooValue{Raw: ptr(0.065)}},
				},
				SectorWeightings: []map[string]dto.YahooValue{
					{"technology": {Raw: ptr(0.29)}},
					{"realestate": {Raw: ptr(0.0)}},
					{"consumer_cyclical": {Raw: ptr(0.1)}},
				},
			},
			FundProfile: &dto.FundProfileModule{
				CategoryName: "Large Blend",
				Family:       "SPDR State Street Global Advisors",
				FeesExpensesInvestment: &dto.FundFees{
					AnnualReportExpenseRatio: dto.YahooValue{Raw: ptr(0.000945)},
				},
			},
			Description: "Tracks the S&P 500.",
		},
	}
}

func chartFixture(symbol string) *dto.ChartData {
	return &dto.ChartData{
		Symbol:   symbol,
		Interval: chartIntervalDaily,
		Bars: []dto.ChartBar{
			{Date: date("2024-01-02"), Close: 100, AdjClose: ptr(100.0)},
			{Date: date("2024-01-03"), Close: 110, AdjClose: ptr(110.0)},
			{Date: date("2024-01-04"), Close: 99, AdjClose: ptr(99.0)},
		},
	}
}

func TestIngestionService_IngestSymbol(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.yahoo.On("GetFundInfo", mock.Anything, "SPY").Return(fundInfoFixture("SPY"), nil)
	env.yahoo.On("GetChart", mock.Anything, "SPY", "1mo", chartIntervalDaily).Return(chartFixture("SPY"), nil)

	s := NewIngestionService(env.cfg, logger.NewNop(), env.repo)
	etf, err := s.IngestSymbol(ctx, "SPY", true)
	require.NoError(t, err)
	assert.Equal(t, "SPY Index Trust", etf.Name)
	assert.Equal(t, "Large Blend", *etf.Category)
	assert.InDelta(t, 0.000945, *etf.ExpenseRatio, 1e-9)
	assert.NotNil(t, etf.LastDataUpdate)

	prices, err := env.repo.PriceHistoryRepo.Get(ctx, model.GetPriceHistoryParam{EtfID: etf.ID})
	require.NoError(t, err)
	require.Len(t, prices, 3)
	assert.Nil(t, prices[0].DailyReturn)
	assert.InDelta(t, 10.0, *prices[1].DailyReturn, 1e-6)
	assert.InDelta(t, -1.0, *prices[2].CumulativeReturn, 1e-6)

	holdings, err := env.repo.HoldingRepo.GetByEtfID(ctx, etf.ID)
	require.NoError(t, err)
	assert.Len(t, holdings, 2)

	sectors, err := env.repo.SectorAllocationRepo.GetByEtfID(ctx, etf.ID)
	require.NoError(t, err)
	require.Len(t, sectors, 2)
	assert.Equal(t, "Technology", sectors[0].SectorName)
	assert.InDelta(t, 29.0, sectors[0].AllocationPercentage, 1e-9)

	// a second run keeps one row per date and updates the fund in place
	again, err := s.IngestSymbol(ctx, "SPY", true)
	require.NoError(t, err)
	assert.Equal(t, etf.ID, again.ID)
	count, err := env.repo.PriceHistoryRepo.Count(ctx, etf.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	env.yahoo.AssertExpectations(t)
}

func TestIngestionService_IngestSymbol_ChartFailureKeepsFund(t *testing.T) {
	env := newTestEnv(t)
	env.yahoo.On("GetFundInfo", mock.Anything, "QQQ").Return(fundInfoFixture("QQQ"), nil)
	env.yahoo.On("GetChart", mock.Anything, "QQQ", "1mo", chartIntervalDaily).Return(nil, errors.New("chart unavailable"))

	s := NewIngestionService(env.cfg, logger.NewNop(), env.repo)
	etf, err := s.IngestSymbol(context.Background(), "QQQ", true)
	require.NoError(t, err)

	count, err := env.repo.PriceHistoryRepo.Count(context.Background(), etf.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIngestionService_IngestSymbols(t *testing.T) {
	env := newTestEnv(t)
	env.yahoo.On("GetFundInfo", mock.Anything, "SPY").Return(fundInfoFixture("SPY"), nil)
	env.yahoo.On("GetFundInfo", mock.Anything, "ZZZZ").Return(nil, fmt.Errorf("%w: ZZZZ", dto.ErrSymbolNotAvailable))

	s := NewIngestionService(env.cfg, logger.NewNop(), env.repo)
	report := s.IngestSymbols(context.Background(), []string{"spy", "ZZZZ", "$$$", "spy"}, false)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, report.Results, 3)
	assert.True(t, report.Results[0].Success)
	assert.Equal(t, "SPY", report.Results[0].Symbol)
	assert.Contains(t, report.Results[1].Error, dto.ErrSymbolNotAvailable.Error())
	assert.Contains(t, report.Results[2].Error, dto.ErrInvalidSymbol.Error())
	env.yahoo.AssertNotCalled(t, "GetChart", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
