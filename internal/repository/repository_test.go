package repository

import (
	"context"
	"errors"
	"etf-dashboard/internal/model"
	"etf-dashboard/pkg/database"
	"etf-dashboard/pkg/logger"
	"etf-dashboard/pkg/utils"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteMemory(logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, model.AutoMigrate(db.DB))
	return db.DB
}

func date(s string) time.Time {
	t, err := time.Parse(utils.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T {
	return &v
}

func seedETF(t *testing.T, db *gorm.DB, symbol string) *model.ETF {
	t.Helper()
	etf := &model.ETF{Symbol: symbol, Name: symbol + " Fund"}
	require.NoError(t, NewETFRepository(db).Create(context.Background(), etf))
	return etf
}

func TestETFRepository_FindByKey(t *testing.T) {
	db := newTestDB(t)
	repo := NewETFRepository(db)
	spy := seedETF(t, db, "SPY")
	seedETF(t, db, "QQQ")

	tests := []struct {
		name       string
		key        model.FundKey
		wantSymbol string
	}{
		{name: "by symbol", key: model.FundKey{Symbol: "QQQ"}, wantSymbol: "QQQ"},
		{name: "by id", key: model.FundKey{ID: spy.ID}, wantSymbol: "SPY"},
		{name: "missing symbol", key: model.FundKey{Symbol: "NOPE"}},
		{name: "missing id", key: model.FundKey{ID: 9999}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			etf, err := repo.FindByKey(context.Background(), tt.key)
			require.NoError(t, err)
			if tt.wantSymbol == "" {
				assert.Nil(t, etf)
				return
			}
			require.NotNil(t, etf)
			assert.Equal(t, tt.wantSymbol, etf.Symbol)
		})
	}
}

func TestETFRepository_ListAndDeleteAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewETFRepository(db)
	ctx := context.Background()
	voo := seedETF(t, db, "VOO")
	seedETF(t, db, "AGG")

	_, err := NewPriceHistoryRepository(db).InsertMissing(ctx, []model.ETFPriceHistory{
		{EtfID: voo.ID, Date: date("2024-01-02"), ClosePrice: 10},
	})
	require.NoError(t, err)

	symbols, err := repo.ListSymbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AGG", "VOO"}, symbols)

	deleted, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	etfs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, etfs)

	count, err := NewPriceHistoryRepository(db).Count(ctx, voo.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPriceHistoryRepository_InsertMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewPriceHistoryRepository(db)
	ctx := context.Background()
	etf := seedETF(t, db, "SPY")

	first := []model.ETFPriceHistory{
		{EtfID: etf.ID, Date: date("2024-01-02"), ClosePrice: 100},
		{EtfID: etf.ID, Date: date("2024-01-03"), ClosePrice: 101},
	}
	inserted, err := repo.InsertMissing(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)

	second := []model.ETFPriceHistory{
		{EtfID: etf.ID, Date: date("2024-01-03"), ClosePrice: 999},
		{EtfID: etf.ID, Date: date("2024-01-04"), ClosePrice: 102},
	}
	inserted, err = repo.InsertMissing(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)

	prices, err := repo.Get(ctx, model.GetPriceHistoryParam{EtfID: etf.ID})
	require.NoError(t, err)
	require.Len(t, prices, 3)
	assert.Equal(t, 101.0, prices[1].ClosePrice, "existing rows are left untouched")
	assert.True(t, prices[0].Date.Before(prices[2].Date))
}

func TestPriceHistoryRepository_GetRange(t *testing.T) {
	db := newTestDB(t)
	repo := NewPriceHistoryRepository(db)
	ctx := context.Background()
	etf := seedETF(t, db, "SPY")

	var rows []model.ETFPriceHistory
	for i, d := range []string{"2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"} {
		rows = append(rows, model.ETFPriceHistory{EtfID: etf.ID, Date: date(d), ClosePrice: float64(100 + i)})
	}
	_, err := repo.InsertMissing(ctx, rows)
	require.NoError(t, err)

	tests := []struct {
		name  string
		start *time.Time
		end   *time.Time
		want  []float64
	}{
		{name: "unbounded", want: []float64{100, 101, 102, 103}},
		{name: "start only", start: ptr(date("2024-01-04")), want: []float64{102, 103}},
		{name: "end only", end: ptr(date("2024-01-03")), want: []float64{100, 101}},
		{name: "inclusive both", start: ptr(date("2024-01-03")), end: ptr(date("2024-01-04")), want: []float64{101, 102}},
		{name: "empty window", start: ptr(date("2025-01-01")), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices, err := repo.Get(ctx, model.GetPriceHistoryParam{EtfID: etf.ID, Start: tt.start, End: tt.end})
			require.NoError(t, err)
			var got []float64
			for _, p := range prices {
				got = append(got, p.ClosePrice)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	latest, err := repo.GetLatest(ctx, etf.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 103.0, latest.ClosePrice)

	none, err := repo.GetLatest(ctx, etf.ID+1)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestPriceHistoryRepository_UpdateReturns(t *testing.T) {
	db := newTestDB(t)
	repo := NewPriceHistoryRepository(db)
	ctx := context.Background()
	etf := seedETF(t, db, "SPY")

	_, err := repo.InsertMissing(ctx, []model.ETFPriceHistory{
		{EtfID: etf.ID, Date: date("2024-01-02"), ClosePrice: 100},
		{EtfID: etf.ID, Date: date("2024-01-03"), ClosePrice: 110},
	})
	require.NoError(t, err)

	prices, err := repo.Get(ctx, model.GetPriceHistoryParam{EtfID: etf.ID})
	require.NoError(t, err)
	prices[0].CumulativeReturn = ptr(0.0)
	prices[1].DailyReturn = ptr(10.0)
	prices[1].CumulativeReturn = ptr(10.0)
	require.NoError(t, repo.UpdateReturns(ctx, prices))

	stored, err := repo.Get(ctx, model.GetPriceHistoryParam{EtfID: etf.ID})
	require.NoError(t, err)
	assert.Nil(t, stored[0].DailyReturn)
	require.NotNil(t, stored[1].DailyReturn)
	assert.InDelta(t, 10.0, *stored[1].DailyReturn, 1e-9)
}

func TestHoldingRepository_Replace(t *testing.T) {
	db := newTestDB(t)
	repo := NewHoldingRepository(db)
	ctx := context.Background()
	etf := seedETF(t, db, "SPY")

	require.NoError(t, repo.Replace(ctx, etf.ID, []model.ETFHolding{
		{Symbol: ptr("AAPL"), Weight: ptr(0.07)},
		{Symbol: ptr("MSFT"), Weight: ptr(0.06)},
	}))
	require.NoError(t, repo.Replace(ctx, etf.ID, []model.ETFHolding{
		{Symbol: ptr("NVDA"), Weight: ptr(0.05)},
		{Symbol: ptr("MSFT"), Weight: ptr(0.08)},
	}))

	holdings, err := repo.GetByEtfID(ctx, etf.ID)
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.Equal(t, "MSFT", *holdings[0].Symbol)
	assert.Equal(t, "NVDA", *holdings[1].Symbol)
}

func TestSectorAllocationRepository_Replace(t *testing.T) {
	db := newTestDB(t)
	repo := NewSectorAllocationRepository(db)
	ctx := context.Background()
	etf := seedETF(t, db, "SPY")

	require.NoError(t, repo.Replace(ctx, etf.ID, []model.SectorAllocation{
		{SectorName: "Energy", AllocationPercentage: 3.5},
		{SectorName: "Technology", AllocationPercentage: 31.2},
	}))

	sectors, err := repo.GetByEtfID(ctx, etf.ID)
	require.NoError(t, err)
	require.Len(t, sectors, 2)
	assert.Equal(t, "Technology", sectors[0].SectorName)

	require.NoError(t, repo.Replace(ctx, etf.ID, nil))
	sectors, err = repo.GetByEtfID(ctx, etf.ID)
	require.NoError(t, err)
	assert.Empty(t, sectors)
}

func TestFundDetailRepository_Replace(t *testing.T) {
	db := newTestDB(t)
	repo := NewFundDetailRepository(db)
	etfRepo := NewETFRepository(db)
	ctx := context.Background()
	etf := seedETF(t, db, "SPY")

	require.NoError(t, repo.ReplaceFundOperations(ctx, etf.ID, &model.FundOperations{AnnualReportExpenseRatio: ptr(0.0009)}))
	require.NoError(t, repo.ReplaceFundOperations(ctx, etf.ID, &model.FundOperations{AnnualReportExpenseRatio: ptr(0.0003)}))
	require.NoError(t, repo.ReplaceFundOverview(ctx, etf.ID, &model.FundOverview{CategoryName: ptr("Large Blend")}))
	require.NoError(t, repo.ReplaceEquityMetrics(ctx, etf.ID, nil))

	got, err := etfRepo.FindByKey(ctx, model.FundKey{Symbol: "SPY"},
		utils.WithPreload("FundOperations"),
		utils.WithPreload("FundOverview"),
		utils.WithPreload("EquityMetrics"),
	)
	require.NoError(t, err)
	require.NotNil(t, got.FundOperations)
	assert.InDelta(t, 0.0003, *got.FundOperations.AnnualReportExpenseRatio, 1e-12)
	require.NotNil(t, got.FundOverview)
	assert.Equal(t, "Large Blend", *got.FundOverview.CategoryName)
	assert.Nil(t, got.EquityMetrics)
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	uow := NewUnitOfWork(db)
	etfRepo := NewETFRepository(db)
	ctx := context.Background()
	errBoom := errors.New("boom")

	err := uow.Run(func(opts ...utils.DBOption) error {
		if err := etfRepo.Create(ctx, &model.ETF{Symbol: "SPY", Name: "SPDR"}, opts...); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	etf, err := etfRepo.FindByKey(ctx, model.FundKey{Symbol: "SPY"})
	require.NoError(t, err)
	assert.Nil(t, etf)

	err = uow.Run(func(opts ...utils.DBOption) error {
		return etfRepo.Create(ctx, &model.ETF{Symbol: "SPY", Name: "SPDR"}, opts...)
	})
	require.NoError(t, err)

	etf, err = etfRepo.FindByKey(ctx, model.FundKey{Symbol: "SPY"})
	require.NoError(t, err)
	assert.NotNil(t, etf)
}
