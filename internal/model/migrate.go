package model

import "gorm.io/gorm"

// AutoMigrate creates or updates every table the service owns. Postgres
// deployments use the SQL files under migrations/ instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&ETF{},
		&ETFPriceHistory{},
		&ETFHolding{},
		&SectorAllocation{},
		&FundOperations{},
		&EquityMetrics{},
		&FundOverview{},
		&Job{},
		&TaskSchedule{},
		&TaskExecutionHistory{},
	)
}
