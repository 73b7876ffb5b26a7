package service

import (
	"context"
	"etf-dashboard/internal/dto"
	"etf-dashboard/internal/model"
	"etf-dashboard/pkg/logger"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rising(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = float64(100 + i)
	}
	return closes
}

func TestPriceService_GetPriceHistory(t *testing.T) {
	env := newTestEnv(t)
	env.seedFund(t, "SPY", rising(10)...)
	s := NewPriceService(logger.NewNop(), env.repo)

	tests := []struct {
		name      string
		param     dto.GetPriceHistoryParam
		wantLen   int
		wantFirst string
	}{
		{name: "full range", wantLen: 10, wantFirst: "2024-01-01"},
		{name: "from start", param: dto.GetPriceHistoryParam{Start: ptr(date("2024-01-05"))}, wantLen: 6, wantFirst: "2024-01-05"},
		{name: "bounded", param: dto.GetPriceHistoryParam{Start: ptr(date("2024-01-02")), End: ptr(date("2024-01-03"))}, wantLen: 2, wantFirst: "2024-01-02"},
		{name: "empty window", param: dto.GetPriceHistoryParam{Start: ptr(date("2025-01-01"))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices, err := s.GetPriceHistory(context.Background(), model.FundKey{Symbol: "SPY"}, tt.param)
			require.NoError(t, err)
			require.Len(t, prices, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, prices[0].Date)
				assert.Equal(t, "SPY", prices[0].EtfSymbol)
			}
		})
	}
}

func TestPriceService_GetLatestPrice(t *testing.T) {
	env := newTestEnv(t)
	env.seedFund(t, "SPY", 100, 101, 102)
	env.seedFund(t, "EMPTY")
	s := NewPriceService(logger.NewNop(), env.repo)

	latest, err := s.GetLatestPrice(context.Background(), model.FundKey{Symbol: "SPY"})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-03", latest.Date)
	assert.Equal(t, 102.0, latest.ClosePrice)

	_, err = s.GetLatestPrice(context.Background(), model.FundKey{Symbol: "EMPTY"})
	assert.ErrorIs(t, err, dto.ErrNoPriceData)

	_, err = s.GetLatestPrice(context.Background(), model.FundKey{Symbol: "NOPE"})
	assert.ErrorIs(t, err, dto.ErrFundNotFound)
}

func TestPriceService_GetPriceSummary(t *testing.T) {
	env := newTestEnv(t)
	env.seedFund(t, "SPY", rising(60)...)
	env.seedFund(t, "EMPTY")
	s := NewPriceService(logger.NewNop(), env.repo)

	summary, err := s.GetPriceSummary(context.Background(), model.FundKey{Symbol: "SPY"})
	require.NoError(t, err)
	assert.Equal(t, "SPY Fund", summary.FundName)
	assert.Equal(t, 60, summary.PriceStatistics.TotalRecords)
	assert.Len(t, summary.RecentHistory, 10)
	assert.Equal(t, 159.0, summary.LatestPrice.ClosePrice)
	assert.Equal(t, &dto.PriceRange{Min: 100, Max: 159}, summary.PriceStatistics.PriceRange)
	assert.Equal(t, "2024-01-01", summary.PriceStatistics.DateRange.Start)
	require.NotNil(t, summary.PriceStatistics.MovingAverages)
	assert.InDelta(t, 134.5, *summary.PriceStatistics.MovingAverages.SMA50, 1e-9)
	assert.Nil(t, summary.PriceStatistics.MovingAverages.SMA200)

	empty, err := s.GetPriceSummary(context.Background(), model.FundKey{Symbol: "EMPTY"})
	require.NoError(t, err)
	assert.Nil(t, empty.LatestPrice)
	assert.NotNil(t, empty.RecentHistory)
	assert.Empty(t, empty.RecentHistory)
}
