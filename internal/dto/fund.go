package dto

import (
	"time"

	"etf-dashboard/internal/model"
)

const DateLayout = "2006-01-02"

func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// FundListItem carries the columns the fund picker needs.
type FundListItem struct {
	ID                        uint       `json:"id"`
	Symbol                    string     `json:"symbol"`
	Name                      string     `json:"name"`
	Category                  *string    `json:"category"`
	Family                    *string    `json:"family"`
	Exchange                  *string    `json:"exchange"`
	Currency                  *string    `json:"currency"`
	Country                   *string    `json:"country"`
	LegalType                 *string    `json:"legal_type"`
	ExpenseRatio              *float64   `json:"expense_ratio"`
	MarketCap                 *float64   `json:"market_cap"`
	NetAssets                 *float64   `json:"net_assets"`
	Nav                       *float64   `json:"nav"`
	CurrentPrice              *float64   `json:"current_price"`
	YieldRate                 *float64   `json:"yield_rate"`
	YtdReturn                 *float64   `json:"ytd_return"`
	ThreeYearReturn           *float64   `json:"three_year_return"`
	FiveYearReturn            *float64   `json:"five_year_return"`
	FiftyTwoWeekLow           *float64   `json:"fifty_two_week_low"`
	FiftyTwoWeekHigh          *float64   `json:"fifty_two_week_high"`
	FiftyTwoWeekChangePercent *float64   `json:"fifty_two_week_change_percent"`
	Volume                    *float64   `json:"volume"`
	AverageVolume             *float64   `json:"average_volume"`
	LastDataUpdate            *time.Time `json:"last_data_update"`
}

func NewFundListItem(etf model.ETF) FundListItem {
	return FundListItem{
		ID:                        etf.ID,
		Symbol:                    etf.Symbol,
		Name:                      etf.Name,
		Category:                  etf.Category,
		Family:                    etf.Family,
		Exchange:                  etf.Exchange,
		Currency:                  etf.Currency,
		Country:                   etf.Country,
		LegalType:                 etf.LegalType,
		ExpenseRatio:              etf.ExpenseRatio,
		MarketCap:                 etf.MarketCap,
		NetAssets:                 etf.NetAssets,
		Nav:                       etf.Nav,
		CurrentPrice:              etf.CurrentPrice,
		YieldRate:                 etf.YieldRate,
		YtdReturn:                 etf.YtdReturn,
		ThreeYearReturn:           etf.ThreeYearReturn,
		FiveYearReturn:            etf.FiveYearReturn,
		FiftyTwoWeekLow:           etf.FiftyTwoWeekLow,
		FiftyTwoWeekHigh:          etf.FiftyTwoWeekHigh,
		FiftyTwoWeekChangePercent: etf.FiftyTwoWeekChangePercent,
		Volume:                    etf.Volume,
		AverageVolume:             etf.AverageVolume,
		LastDataUpdate:            etf.LastDataUpdate,
	}
}

type FundOperationsResponse struct {
	*model.FundOperations
	AsOfDate *string `json:"as_of_date"`
}

type EquityMetricsResponse struct {
	*model.EquityMetrics
	AsOfDate *string `json:"as_of_date"`
}

// FundDetail is the full fund row plus its 1:1 detail rows. The detail
// keys are always present and null when the row does not exist.
type FundDetail struct {
	model.ETF
	InceptionDate     *string                 `json:"inception_date"`
	FundInceptionDate *string                 `json:"fund_inception_date"`
	FundOverview      *model.FundOverview     `json:"fund_overview"`
	FundOperations    *FundOperationsResponse `json:"fund_operations"`
	EquityMetrics     *EquityMetricsResponse  `json:"equity_metrics"`
}

func NewFundDetail(etf model.ETF) *FundDetail {
	detail := &FundDetail{
		ETF:               etf,
		InceptionDate:     FormatDate(etf.InceptionDate),
		FundInceptionDate: FormatDate(etf.FundInceptionDate),
		FundOverview:      etf.FundOverview,
	}
	if etf.FundOperations != nil {
		detail.FundOperations = &FundOperationsResponse{
			FundOperations: etf.FundOperations,
			AsOfDate:       FormatDate(etf.FundOperations.AsOfDate),
		}
	}
	if etf.EquityMetrics != nil {
		detail.EquityMetrics = &EquityMetricsResponse{
			EquityMetrics: etf.EquityMetrics,
			AsOfDate:      FormatDate(etf.EquityMetrics.AsOfDate),
		}
	}
	return detail
}

type HoldingResponse struct {
	model.ETFHolding
	EtfSymbol string  `json:"etf_symbol"`
	AsOfDate  *string `json:"as_of_date"`
}

func NewHoldingResponses(symbol string, holdings []model.ETFHolding) []HoldingResponse {
	out := make([]HoldingResponse, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, HoldingResponse{
			ETFHolding: h,
			EtfSymbol:  symbol,
			AsOfDate:   FormatDate(h.AsOfDate),
		})
	}
	return out
}

type SectorAllocationResponse struct {
	model.SectorAllocation
	EtfSymbol string  `json:"etf_symbol"`
	AsOfDate  *string `json:"as_of_date"`
}

func NewSectorAllocationResponses(symbol string, sectors []model.SectorAllocation) []SectorAllocationResponse {
	out := make([]SectorAllocationResponse, 0, len(sectors))
	for _, s := range sectors {
		out = append(out, SectorAllocationResponse{
			SectorAllocation: s,
			EtfSymbol:        symbol,
			AsOfDate:         FormatDate(s.AsOfDate),
		})
	}
	return out
}

type FundSummary struct {
	Fund          *FundDetail                `json:"fund"`
	TopHoldings   []HoldingResponse          `json:"top_holdings"`
	TopSectors    []SectorAllocationResponse `json:"top_sectors"`
	TotalHoldings int                        `json:"total_holdings"`
	TotalSectors  int                        `json:"total_sectors"`
}

type InsertFundRequest struct {
	Symbol         string `json:"symbol" validate:"required,max=20"`
	IncludeHistory *bool  `json:"include_history"`
}

type InsertFundResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Fund    *FundDetail `json:"fund"`
}
