package service

import (
	"context"
	"etf-dashboard/internal/dto"
	"etf-dashboard/pkg/logger"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareService_Compare(t *testing.T) {
	env := newTestEnv(t)
	env.seedFund(t, "SPY", 100, 102, 101, 105, 110)
	env.seedFund(t, "QQQ", 200, 206, 201, 212, 224)
	s := NewCompareService(logger.NewNop(), env.repo)

	result, err := s.Compare(context.Background(), dto.CompareParam{Symbols: []string{"spy", "QQQ", "SPY"}})
	require.NoError(t, err)
	assert.Equal(t, dto.IntervalDaily, result.Interval)
	require.Len(t, result.Series, 2)

	spy := result.Series[0]
	assert.Equal(t, "SPY", spy.Symbol)
	require.Len(t, spy.Points, 5)
	assert.Equal(t, 100.0, spy.Points[0].Normalized)
	assert.InDelta(t, 110.0, spy.Points[4].Normalized, 1e-9)
	assert.InDelta(t, 10.0, *spy.Stats.TotalReturn, 1e-9)
	assert.Equal(t, "2024-01-01", spy.Stats.StartDate)
	assert.Equal(t, "2024-01-05", spy.Stats.EndDate)
	require.NotNil(t, spy.Stats.MaxDrawdown)
	assert.Less(t, *spy.Stats.MaxDrawdown, 0.0)

	assert.Equal(t, 1.0, result.Correlation["SPY"]["SPY"])
	assert.Equal(t, result.Correlation["SPY"]["QQQ"], result.Correlation["QQQ"]["SPY"])
	assert.Greater(t, result.Correlation["SPY"]["QQQ"], 0.9)
}

func TestCompareService_Compare_StatsIgnoreInterval(t *testing.T) {
	env := newTestEnv(t)
	spy := make([]float64, 90)
	qqq := make([]float64, 90)
	for i := range spy {
		spy[i] = 100 + float64(i%7) + float64(i)/10
		qqq[i] = 200 - float64(i%5)*2 + float64(i)/5
	}
	env.seedFund(t, "SPY", spy...)
	env.seedFund(t, "QQQ", qqq...)
	s := NewCompareService(logger.NewNop(), env.repo)

	daily, err := s.Compare(context.Background(), dto.CompareParam{Symbols: []string{"SPY", "QQQ"}, Interval: dto.IntervalDaily})
	require.NoError(t, err)
	require.Len(t, daily.Series[0].Points, 90)
	require.NotNil(t, daily.Series[0].Stats.AnnualizedVolatility)

	tests := []struct {
		interval   string
		wantPoints int
	}{
		{interval: dto.IntervalWeekly, wantPoints: 13},
		{interval: dto.IntervalMonthly, wantPoints: 3},
	}

	for _, tt := range tests {
		t.Run(tt.interval, func(t *testing.T) {
			result, err := s.Compare(context.Background(), dto.CompareParam{Symbols: []string{"SPY", "QQQ"}, Interval: tt.interval})
			require.NoError(t, err)
			assert.Equal(t, tt.interval, result.Interval)

			for i, series := range result.Series {
				want := daily.Series[i].Stats
				assert.Len(t, series.Points, tt.wantPoints, series.Symbol)
				assert.InDelta(t, *want.AnnualizedVolatility, *series.Stats.AnnualizedVolatility, 1e-9, series.Symbol)
				assert.InDelta(t, *want.TotalReturn, *series.Stats.TotalReturn, 1e-9, series.Symbol)
				assert.InDelta(t, *want.MaxDrawdown, *series.Stats.MaxDrawdown, 1e-9, series.Symbol)
				assert.Equal(t, want.StartDate, series.Stats.StartDate)
				assert.Equal(t, want.EndDate, series.Stats.EndDate)
				assert.Equal(t, 100.0, series.Points[0].Normalized)
			}
			assert.InDelta(t, daily.Correlation["SPY"]["QQQ"], result.Correlation["SPY"]["QQQ"], 1e-9)
		})
	}
}

func TestCompareService_Compare_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.seedFund(t, "SPY", 100, 101)
	env.seedFund(t, "QQQ", 100, 101)
	s := NewCompareService(logger.NewNop(), env.repo)

	tests := []struct {
		name    string
		symbols []string
		wantErr error
	}{
		{name: "single symbol", symbols: []string{"SPY"}, wantErr: dto.ErrInvalidCompare},
		{name: "duplicates collapse", symbols: []string{"SPY", "spy"}, wantErr: dto.ErrInvalidCompare},
		{name: "too many", symbols: []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K"}, wantErr: dto.ErrInvalidCompare},
		{name: "bad symbol", symbols: []string{"SPY", "!!"}, wantErr: dto.ErrInvalidSymbol},
		{name: "unknown fund", symbols: []string{"SPY", "VTI"}, wantErr: dto.ErrFundNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Compare(context.Background(), dto.CompareParam{Symbols: tt.symbols})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
