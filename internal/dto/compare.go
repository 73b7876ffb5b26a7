package dto

import "time"

const (
	IntervalDaily   = "daily"
	IntervalWeekly  = "weekly"
	IntervalMonthly = "monthly"
)

type CompareRequest struct {
	Symbols  string `query:"symbols" validate:"required"`
	Start    string `query:"start"`
	End      string `query:"end"`
	Interval string `query:"interval" validate:"omitempty,oneof=daily weekly monthly"`
}

type CompareParam struct {
	Symbols  []string
	Start    *time.Time
	End      *time.Time
	Interval string
}

type ComparePoint struct {
	Date       string  `json:"date"`
	Close      float64 `json:"close"`
	Normalized float64 `json:"normalized"`
}

type SeriesStats struct {
	StartDate            string   `json:"start_date"`
	EndDate              string   `json:"end_date"`
	TotalReturn          *float64 `json:"total_return"`
	AnnualizedVolatility *float64 `json:"annualized_volatility"`
	MaxDrawdown          *float64 `json:"max_drawdown"`
	ObservationCount     int      `json:"observation_count"`
}

type CompareSeries struct {
	Symbol string         `json:"symbol"`
	Name   string         `json:"name"`
	Points []ComparePoint `json:"points"`
	Stats  SeriesStats    `json:"stats"`
}

type CompareResult struct {
	Interval    string                        `json:"interval"`
	Base        float64                       `json:"base"`
	Series      []CompareSeries               `json:"series"`
	Correlation map[string]map[string]float64 `json:"correlation"`
}
