package helper

import (
	"etf-dashboard/internal/dto"
	"math"
	"time"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const TradingDaysPerYear = 252

type PricePoint struct {
	Date  time.Time
	Close float64
}

// Resample keeps the last point of every ISO week or calendar month. Points
// must be sorted by date ascending. Daily (or unknown) intervals return the
// input unchanged.
func Resample(points []PricePoint, interval string) []PricePoint {
	var bucket func(t time.Time) int
	switch interval {
	case dto.IntervalWeekly:
		bucket = func(t time.Time) int {
			year, week := t.ISOWeek()
			return year*100 + week
		}
	case dto.IntervalMonthly:
		bucket = func(t time.Time) int {
			return t.Year()*100 + int(t.Month())
		}
	default:
		return points
	}

	out := make([]PricePoint, 0, len(points))
	for i, p := range points {
		if i+1 < len(points) && bucket(points[i+1].Date) == bucket(p.Date) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Normalize rebases closes so the first one equals base.
func Normalize(closes []float64, base float64) []float64 {
	out := make([]float64, len(closes))
	if len(closes) == 0 || closes[0] == 0 {
		return out
	}
	for i, c := range closes {
		out[i] = Round(c/closes[0]*base, 4)
	}
	return out
}

// DailyReturns returns fractional period returns. Periods whose previous
// close is zero are dropped.
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		out = append(out, closes[i]/closes[i-1]-1)
	}
	return out
}

func TotalReturn(closes []float64) *float64 {
	if len(closes) < 2 {
		return nil
	}
	return PercentChange(closes[0], closes[len(closes)-1])
}

// AnnualizedVolatility is the sample standard deviation of daily returns
// scaled by sqrt(252), in percent.
func AnnualizedVolatility(returns []float64) *float64 {
	if len(returns) < 2 {
		return nil
	}
	v := Round(stat.StdDev(returns, nil)*math.Sqrt(TradingDaysPerYear)*100, 6)
	return &v
}

// MaxDrawdown is the deepest peak to trough decline in percent, reported as
// a value <= 0.
func MaxDrawdown(closes []float64) *float64 {
	if len(closes) == 0 {
		return nil
	}
	peak := closes[0]
	worst := 0.0
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if peak > 0 {
			if dd := (c/peak - 1) * 100; dd < worst {
				worst = dd
			}
		}
	}
	worst = Round(worst, 6)
	return &worst
}

// Correlation is the Pearson correlation of two equally long series, nil
// when either series is constant or too short.
func Correlation(a, b []float64) *float64 {
	if len(a) != len(b) || len(a) < 2 {
		return nil
	}
	c := stat.Correlation(a, b, nil)
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return nil
	}
	c = Round(c, 6)
	return &c
}

func MinMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return floats.Min(values), floats.Max(values)
}

// SMA returns the simple moving average of the trailing period values, nil
// when there are fewer than period values.
func SMA(values []float64, period int) *float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	sma := talib.Sma(values, period)
	v := Round(sma[len(sma)-1], 6)
	return &v
}
