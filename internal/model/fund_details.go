package model

import "time"

// FundOperations holds fee and turnover figures next to the category average.
type FundOperations struct {
	ID                          uint       `gorm:"primaryKey" json:"id"`
	EtfID                       uint       `gorm:"not null;uniqueIndex" json:"etf_id"`
	AnnualReportExpenseRatio    *float64   `json:"annual_report_expense_ratio"`
	AnnualHoldingsTurnover      *float64   `json:"annual_holdings_turnover"`
	TotalNetAssets              *float64   `json:"total_net_assets"`
	CategoryAverageExpenseRatio *float64   `json:"category_average_expense_ratio"`
	CategoryAverageTurnover     *float64   `json:"category_average_turnover"`
	AsOfDate                    *time.Time `gorm:"type:date" json:"as_of_date"`
	CreatedAt                   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FundOperations) TableName() string {
	return "fund_operations"
}

// EquityMetrics holds valuation ratios of the fund's equity sleeve.
type EquityMetrics struct {
	ID                         uint       `gorm:"primaryKey" json:"id"`
	EtfID                      uint       `gorm:"not null;uniqueIndex" json:"etf_id"`
	FundPriceEarnings          *float64   `json:"fund_price_earnings"`
	FundPriceBook              *float64   `json:"fund_price_book"`
	FundPriceSales             *float64   `json:"fund_price_sales"`
	FundPriceCashflow          *float64   `json:"fund_price_cashflow"`
	FundMedianMarketCap        *float64   `json:"fund_median_market_cap"`
	FundGeometricMeanMarketCap *float64   `json:"fund_geometric_mean_market_cap"`
	CategoryPriceEarnings      *float64   `json:"category_price_earnings"`
	CategoryPriceBook          *float64   `json:"category_price_book"`
	CategoryPriceSales         *float64   `json:"category_price_sales"`
	AsOfDate                   *time.Time `gorm:"type:date" json:"as_of_date"`
	CreatedAt                  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (EquityMetrics) TableName() string {
	return "equity_metrics"
}

type FundOverview struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EtfID        uint      `gorm:"not null;uniqueIndex" json:"etf_id"`
	CategoryName *string   `gorm:"type:varchar(100)" json:"category_name"`
	Family       *string   `gorm:"type:varchar(100)" json:"family"`
	LegalType    *string   `gorm:"type:varchar(50)" json:"legal_type"`
	Description  *string   `gorm:"type:text" json:"description"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FundOverview) TableName() string {
	return "fund_overview"
}
