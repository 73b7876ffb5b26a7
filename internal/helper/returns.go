package helper

import (
	"etf-dashboard/internal/model"

	"github.com/shopspring/decimal"
)

const returnPrecision = 6

// PercentChange returns (to/from - 1) * 100 rounded to six places, or nil
// when from is zero.
func PercentChange(from, to float64) *float64 {
	if from == 0 {
		return nil
	}
	d := decimal.NewFromFloat(to).
		Div(decimal.NewFromFloat(from)).
		Sub(decimal.NewFromInt(1)).
		Mul(decimal.NewFromInt(100)).
		Round(returnPrecision)
	f, _ := d.Float64()
	return &f
}

// ComputeReturns fills DailyReturn and CumulativeReturn of a date ascending
// series in place. The first row has no daily return and a cumulative
// return of zero.
func ComputeReturns(prices []model.ETFPriceHistory) {
	if len(prices) == 0 {
		return
	}
	base := prices[0].BasisPrice()
	for i := range prices {
		current := prices[i].BasisPrice()
		if i == 0 {
			prices[i].DailyReturn = nil
			zero := 0.0
			prices[i].CumulativeReturn = &zero
			continue
		}
		prices[i].DailyReturn = PercentChange(prices[i-1].BasisPrice(), current)
		prices[i].CumulativeReturn = PercentChange(base, current)
	}
}

// Round rounds f to the given number of decimal places.
func Round(f float64, places int32) float64 {
	r, _ := decimal.NewFromFloat(f).Round(places).Float64()
	return r
}
