package model

import "time"

type ETFHolding struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	EtfID        uint       `gorm:"not null;index" json:"etf_id"`
	Symbol       *string    `gorm:"type:varchar(20);index" json:"symbol"`
	Name         *string    `gorm:"type:varchar(255)" json:"name"`
	Weight       *float64   `json:"weight"`
	Shares       *float64   `json:"shares"`
	MarketValue  *float64   `json:"market_value"`
	Sector       *string    `gorm:"type:varchar(100)" json:"sector"`
	Industry     *string    `gorm:"type:varchar(100)" json:"industry"`
	Country      *string    `gorm:"type:varchar(50)" json:"country"`
	Region       *string    `gorm:"type:varchar(50)" json:"region"`
	AssetClass   *string    `gorm:"type:varchar(50)" json:"asset_class"`
	SecurityType *string    `gorm:"type:varchar(50)" json:"security_type"`
	AsOfDate     *time.Time `gorm:"type:date" json:"as_of_date"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	ETF *ETF `gorm:"foreignKey:EtfID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ETFHolding) TableName() string {
	return "etf_holdings"
}

type SectorAllocation struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	EtfID                uint       `gorm:"not null;index" json:"etf_id"`
	SectorName           string     `gorm:"type:varchar(100);not null" json:"sector_name"`
	AllocationPercentage float64    `gorm:"not null" json:"allocation_percentage"`
	AsOfDate             *time.Time `gorm:"type:date" json:"as_of_date"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`

	ETF *ETF `gorm:"foreignKey:EtfID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SectorAllocation) TableName() string {
	return "sector_allocations"
}
