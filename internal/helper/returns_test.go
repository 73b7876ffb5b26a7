package helper

import (
	"etf-dashboard/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name string
		from float64
		to   float64
		want *float64
	}{
		{name: "gain", from: 100, to: 110, want: f(10)},
		{name: "loss", from: 200, to: 150, want: f(-25)},
		{name: "rounded to six places", from: 3, to: 4, want: f(33.333333)},
		{name: "zero base", from: 0, to: 10, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentChange(tt.from, tt.to)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestComputeReturns(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	prices := []model.ETFPriceHistory{
		{Date: day, ClosePrice: 100},
		{Date: day.AddDate(0, 0, 1), ClosePrice: 110},
		{Date: day.AddDate(0, 0, 2), ClosePrice: 99},
		{Date: day.AddDate(0, 0, 3), ClosePrice: 50, AdjustedClose: f(120)},
	}

	ComputeReturns(prices)

	assert.Nil(t, prices[0].DailyReturn)
	require.NotNil(t, prices[0].CumulativeReturn)
	assert.Equal(t, 0.0, *prices[0].CumulativeReturn)

	assert.InDelta(t, 10.0, *prices[1].DailyReturn, 1e-9)
	assert.InDelta(t, 10.0, *prices[1].CumulativeReturn, 1e-9)

	assert.InDelta(t, -10.0, *prices[2].DailyReturn, 1e-9)
	assert.InDelta(t, -1.0, *prices[2].CumulativeReturn, 1e-9)

	// adjusted close wins over close
	assert.InDelta(t, 21.212121, *prices[3].DailyReturn, 1e-9)
	assert.InDelta(t, 20.0, *prices[3].CumulativeReturn, 1e-9)
}

func TestComputeReturns_ZeroPrevious(t *testing.T) {
	prices := []model.ETFPriceHistory{
		{ClosePrice: 0},
		{ClosePrice: 10},
	}
	ComputeReturns(prices)
	assert.Nil(t, prices[1].DailyReturn)
	assert.Nil(t, prices[1].CumulativeReturn)
}

func TestComputeReturns_Empty(t *testing.T) {
	assert.NotPanics(t, func() { ComputeReturns(nil) })
}
