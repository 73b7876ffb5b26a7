package model

import "time"

type ETFPriceHistory struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	EtfID            uint      `gorm:"not null;uniqueIndex:idx_etf_price_history_etf_date" json:"etf_id"`
	Date             time.Time `gorm:"type:date;not null;index;uniqueIndex:idx_etf_price_history_etf_date" json:"date"`
	OpenPrice        *float64  `json:"open_price"`
	HighPrice        *float64  `json:"high_price"`
	LowPrice         *float64  `json:"low_price"`
	ClosePrice       float64   `gorm:"not null" json:"close_price"`
	AdjustedClose    *float64  `json:"adjusted_close"`
	Volume           *int64    `json:"volume"`
	DailyReturn      *float64  `json:"daily_return"`
	CumulativeReturn *float64  `json:"cumulative_return"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`

	ETF *ETF `gorm:"foreignKey:EtfID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ETFPriceHistory) TableName() string {
	return "etf_price_history"
}

// BasisPrice is the price return math runs on: adjusted close when the
// provider supplied one, close otherwise.
func (p ETFPriceHistory) BasisPrice() float64 {
	if p.AdjustedClose != nil && *p.AdjustedClose > 0 {
		return *p.AdjustedClose
	}
	return p.ClosePrice
}

type GetPriceHistoryParam struct {
	EtfID uint       `json:"etf_id"`
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}
