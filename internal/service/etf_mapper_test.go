package service

import (
	"etf-dashboard/internal/dto"
	"etf-dashboard/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyQuoteInfo(t *testing.T) {
	tests := []struct {
		name     string
		info     dto.QuoteInfo
		wantName string
	}{
		{name: "long name", info: dto.QuoteInfo{"longName": "Vanguard Total Bond Market ETF"}, wantName: "Vanguard Total Bond Market ETF"},
		{name: "falls back to symbol", info: dto.QuoteInfo{"shortName": "VANGUARD BOND"}, wantName: "BND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			etf := &model.ETF{Symbol: "BND"}
			applyQuoteInfo(etf, tt.info)
			assert.Equal(t, tt.wantName, etf.Name)
		})
	}
}

func TestApplyQuoteInfo_ClearsMissingKeys(t *testing.T) {
	etf := &model.ETF{Symbol: "SPY", Beta: ptr(1.0)}
	applyQuoteInfo(etf, dto.QuoteInfo{
		"regularMarketPrice":    512.25,
		"bidSize":               float64(800),
		"tradeable":             false,
		"gmtOffSetMilliseconds": float64(-14400000),
		"fundInceptionDate":     float64(727660800),
	})

	assert.Nil(t, etf.Beta)
	assert.Equal(t, 512.25, *etf.CurrentPrice)
	assert.Equal(t, 512.25, *etf.RegularMarketPrice)
	assert.Equal(t, int64(800), *etf.BidSize)
	assert.False(t, *etf.Tradeable)
	assert.Equal(t, int64(-14400000), *etf.GmtOffsetMilliseconds)
	require.NotNil(t, etf.FundInceptionDate)
	assert.Equal(t, "1993-01-22", etf.FundInceptionDate.Format(dto.DateLayout))
}

func TestMapSectors(t *testing.T) {
	funds := dto.FundsData{TopHoldings: &dto.TopHoldingsModule{
		SectorWeightings: []map[string]dto.YahooValue{
			{"financial_services": {Raw: ptr(0.125)}},
			{"utilities": {Raw: ptr(0.0)}},
			{"energy": {}},
		},
	}}
	sectors := mapSectors(funds, date("2024-03-01"))
	require.Len(t, sectors, 1)
	assert.Equal(t, "Financial Services", sectors[0].SectorName)
	assert.InDelta(t, 12.5, sectors[0].AllocationPercentage, 1e-9)

	assert.Empty(t, mapSectors(dto.FundsData{}, date("2024-03-01")))
}

func TestMapFundDetails_NilWithoutModules(t *testing.T) {
	asOf := date("2024-03-01")
	assert.Nil(t, mapFundOperations(dto.FundsData{}, asOf))
	assert.Nil(t, mapEquityMetrics(dto.FundsData{}, asOf))
	assert.Nil(t, mapFundOverview(dto.FundsData{}))
	assert.Nil(t, mapHoldings(dto.FundsData{}, asOf))

	overview := mapFundOverview(dto.FundsData{Description: "Bond index fund"})
	require.NotNil(t, overview)
	assert.Equal(t, "Bond index fund", *overview.Description)
	assert.Nil(t, overview.CategoryName)
}
