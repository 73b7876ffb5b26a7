package dto

import (
	"time"

	"etf-dashboard/internal/model"
)

type PriceResponse struct {
	model.ETFPriceHistory
	EtfSymbol string `json:"etf_symbol"`
	Date      string `json:"date"`
}

func NewPriceResponse(symbol string, price model.ETFPriceHistory) PriceResponse {
	return PriceResponse{
		ETFPriceHistory: price,
		EtfSymbol:       symbol,
		Date:            price.Date.Format(DateLayout),
	}
}

func NewPriceResponses(symbol string, prices []model.ETFPriceHistory) []PriceResponse {
	out := make([]PriceResponse, 0, len(prices))
	for _, p := range prices {
		out = append(out, NewPriceResponse(symbol, p))
	}
	return out
}

type GetPriceHistoryParam struct {
	Start *time.Time
	End   *time.Time
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type MovingAverages struct {
	SMA50  *float64 `json:"sma_50"`
	SMA200 *float64 `json:"sma_200"`
}

type PriceStatistics struct {
	TotalRecords   int             `json:"total_records,omitempty"`
	PriceRange     *PriceRange     `json:"price_range,omitempty"`
	DateRange      *DateRange      `json:"date_range,omitempty"`
	MovingAverages *MovingAverages `json:"moving_averages,omitempty"`
}

type PriceSummary struct {
	FundSymbol      string          `json:"fund_symbol"`
	FundName        string          `json:"fund_name"`
	LatestPrice     *PriceResponse  `json:"latest_price"`
	PriceStatistics PriceStatistics `json:"price_statistics"`
	RecentHistory   []PriceResponse `json:"recent_history"`
}
