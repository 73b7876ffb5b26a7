package model

import (
	"strconv"
	"time"
)

// ETF is the main fund row. Column comments name the provider key the
// ingestion maps into each field.
type ETF struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Symbol string `gorm:"type:varchar(10);uniqueIndex;not null" json:"symbol"`
	Name   string `gorm:"type:varchar(255);not null" json:"name"`

	// Basic info
	Category         *string `gorm:"type:varchar(100)" json:"category"`           // category
	Family           *string `gorm:"type:varchar(100)" json:"family"`             // fundFamily
	Exchange         *string `gorm:"type:varchar(20)" json:"exchange"`            // exchange
	FullExchangeName *string `gorm:"type:varchar(100)" json:"full_exchange_name"` // fullExchangeName
	Currency         *string `gorm:"type:varchar(10)" json:"currency"`            // currency
	Country          *string `gorm:"type:varchar(50)" json:"country"`             // country
	LegalType        *string `gorm:"type:varchar(50)" json:"legal_type"`          // legalType

	// Financial metrics
	NetAssets    *float64 `json:"net_assets"`    // totalAssets
	Nav          *float64 `json:"nav"`           // navPrice
	ExpenseRatio *float64 `json:"expense_ratio"` // annualReportExpenseRatio
	YieldRate    *float64 `json:"yield_rate"`    // yield
	PeRatio      *float64 `json:"pe_ratio"`      // trailingPE
	PbRatio      *float64 `json:"pb_ratio"`      // priceToBook
	Beta         *float64 `json:"beta"`          // beta

	// Performance
	YtdReturn                 *float64 `json:"ytd_return"`                   // ytdReturn
	ThreeYearReturn           *float64 `json:"three_year_return"`            // threeYearAverageReturn
	FiveYearReturn            *float64 `json:"five_year_return"`             // fiveYearAverageReturn
	TrailingThreeMonthReturns *float64 `json:"trailing_three_month_returns"` // trailingThreeMonthReturns

	InceptionDate     *time.Time `gorm:"type:date" json:"inception_date"`
	FundInceptionDate *time.Time `gorm:"type:date" json:"fund_inception_date"` // fundInceptionDate

	Website   *string `gorm:"type:varchar(255)" json:"website"`
	Summary   *string `gorm:"type:text" json:"summary"`            // longBusinessSummary
	LongName  *string `gorm:"type:varchar(255)" json:"long_name"`  // longName
	ShortName *string `gorm:"type:varchar(100)" json:"short_name"` // shortName

	// Technical levels
	FiftyDayAverage      *float64 `json:"fifty_day_average"`
	TwoHundredDayAverage *float64 `json:"two_hundred_day_average"`
	FiftyTwoWeekHigh     *float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow      *float64 `json:"fifty_two_week_low"`

	// Volume
	AverageVolume            *float64 `json:"average_volume"`
	AverageVolume10Days      *float64 `gorm:"column:average_volume_10days" json:"average_volume_10days"`
	AverageDailyVolume3Month *float64 `gorm:"column:average_daily_volume_3month" json:"average_daily_volume_3month"`
	SharesOutstanding        *float64 `json:"shares_outstanding"`
	MarketCap                *float64 `json:"market_cap"`

	// Current trading data
	CurrentPrice  *float64 `json:"current_price"` // regularMarketPrice
	DayHigh       *float64 `json:"day_high"`
	DayLow        *float64 `json:"day_low"`
	PreviousClose *float64 `json:"previous_close"`

	// Dividends
	TrailingAnnualDividendRate  *float64 `json:"trailing_annual_dividend_rate"`
	TrailingAnnualDividendYield *float64 `json:"trailing_annual_dividend_yield"`

	// Market data
	OpenPrice                  *float64 `json:"open_price"` // open
	RegularMarketOpen          *float64 `json:"regular_market_open"`
	RegularMarketDayLow        *float64 `json:"regular_market_day_low"`
	RegularMarketDayHigh       *float64 `json:"regular_market_day_high"`
	RegularMarketPreviousClose *float64 `json:"regular_market_previous_close"`
	RegularMarketPrice         *float64 `json:"regular_market_price"`
	RegularMarketVolume        *float64 `json:"regular_market_volume"`
	RegularMarketChange        *float64 `json:"regular_market_change"`
	RegularMarketChangePercent *float64 `json:"regular_market_change_percent"`
	RegularMarketDayRange      *string  `gorm:"type:varchar(50)" json:"regular_market_day_range"`

	// Bid/ask
	Bid     *float64 `json:"bid"`
	Ask     *float64 `json:"ask"`
	BidSize *int64   `json:"bid_size"`
	AskSize *int64   `json:"ask_size"`

	// Post market
	PostMarketPrice         *float64 `json:"post_market_price"`
	PostMarketChange        *float64 `json:"post_market_change"`
	PostMarketChangePercent *float64 `json:"post_market_change_percent"`

	Volume                  *float64 `json:"volume"`
	AverageDailyVolume10Day *float64 `gorm:"column:average_daily_volume_10day" json:"average_daily_volume_10day"`

	// 52-week performance
	FiftyTwoWeekChangePercent     *float64 `json:"fifty_two_week_change_percent"`
	FiftyTwoWeekLowChange         *float64 `json:"fifty_two_week_low_change"`
	FiftyTwoWeekLowChangePercent  *float64 `json:"fifty_two_week_low_change_percent"`
	FiftyTwoWeekHighChange        *float64 `json:"fifty_two_week_high_change"`
	FiftyTwoWeekHighChangePercent *float64 `json:"fifty_two_week_high_change_percent"`
	FiftyTwoWeekRange             *string  `gorm:"type:varchar(50)" json:"fifty_two_week_range"`

	// Moving average changes
	FiftyDayAverageChange             *float64 `json:"fifty_day_average_change"`
	FiftyDayAverageChangePercent      *float64 `json:"fifty_day_average_change_percent"`
	TwoHundredDayAverageChange        *float64 `json:"two_hundred_day_average_change"`
	TwoHundredDayAverageChangePercent *float64 `json:"two_hundred_day_average_change_percent"`

	// Additional fund data
	BookValue                    *float64 `json:"book_value"`
	DividendYield                *float64 `json:"dividend_yield"`
	TrailingThreeMonthNavReturns *float64 `json:"trailing_three_month_nav_returns"`
	EpsTrailingTwelveMonths      *float64 `json:"eps_trailing_twelve_months"`
	TrailingPegRatio             *float64 `json:"trailing_peg_ratio"`
	TotalAssets                  *float64 `json:"total_assets"`
	NetExpenseRatio              *float64 `json:"net_expense_ratio"`
	PriceToBook                  *float64 `json:"price_to_book"`

	// Market metadata
	QuoteType                 *string `gorm:"type:varchar(20)" json:"quote_type"`
	Market                    *string `gorm:"type:varchar(50)" json:"market"`
	ExchangeTimezoneName      *string `gorm:"type:varchar(100)" json:"exchange_timezone_name"`
	ExchangeTimezoneShortName *string `gorm:"type:varchar(10)" json:"exchange_timezone_short_name"`
	GmtOffsetMilliseconds     *int64  `json:"gmt_offset_milliseconds"`
	MarketState               *string `gorm:"type:varchar(20)" json:"market_state"`
	Language                  *string `gorm:"type:varchar(10)" json:"language"`
	Region                    *string `gorm:"type:varchar(10)" json:"region"`
	TypeDisp                  *string `gorm:"type:varchar(20)" json:"type_disp"`
	QuoteSourceName           *string `gorm:"type:varchar(100)" json:"quote_source_name"`

	// Trading metadata
	Tradeable            *bool `json:"tradeable"`
	CryptoTradeable      *bool `json:"crypto_tradeable"`
	HasPrePostMarketData *bool `json:"has_pre_post_market_data"`
	Triggerable          *bool `json:"triggerable"`
	EsgPopulated         *bool `json:"esg_populated"`

	PriceHint             *int64 `json:"price_hint"`
	SourceInterval        *int64 `json:"source_interval"`
	ExchangeDataDelayedBy *int64 `json:"exchange_data_delayed_by"`
	MaxAge                *int64 `json:"max_age"`

	// Epoch timestamps as reported by the provider
	FirstTradeDateMilliseconds *int64 `json:"first_trade_date_milliseconds"`
	RegularMarketTime          *int64 `json:"regular_market_time"`
	PostMarketTime             *int64 `json:"post_market_time"`

	MessageBoardID             *string `gorm:"column:message_board_id;type:varchar(50)" json:"message_board_id"`
	FinancialCurrency          *string `gorm:"type:varchar(10)" json:"financial_currency"`
	CustomPriceAlertConfidence *string `gorm:"type:varchar(20)" json:"custom_price_alert_confidence"`

	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	LastDataUpdate *time.Time `json:"last_data_update"`

	FundOverview   *FundOverview   `gorm:"foreignKey:EtfID;constraint:OnDelete:CASCADE" json:"fund_overview,omitempty"`
	FundOperations *FundOperations `gorm:"foreignKey:EtfID;constraint:OnDelete:CASCADE" json:"fund_operations,omitempty"`
	EquityMetrics  *EquityMetrics  `gorm:"foreignKey:EtfID;constraint:OnDelete:CASCADE" json:"equity_metrics,omitempty"`
}

func (ETF) TableName() string {
	return "etfs"
}

// FundKey identifies a fund either by numeric id or by ticker symbol.
type FundKey struct {
	ID     uint   `json:"id"`
	Symbol string `json:"symbol"`
}

func (k FundKey) String() string {
	if k.Symbol != "" {
		return k.Symbol
	}
	return strconv.FormatUint(uint64(k.ID), 10)
}
