package service

import (
	"context"
	"errors"
	"etf-dashboard/internal/dto"
	"etf-dashboard/internal/model"
	"etf-dashboard/pkg/logger"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newFundService(env *testEnv) FundService {
	return NewFundService(logger.NewNop(), env.repo, NewIngestionService(env.cfg, logger.NewNop(), env.repo))
}

func TestFundService_GetFund(t *testing.T) {
	env := newTestEnv(t)
	spy := env.seedFund(t, "SPY")
	s := newFundService(env)

	tests := []struct {
		name       string
		key        model.FundKey
		wantSymbol string
		wantErr    error
	}{
		{name: "by symbol", key: model.FundKey{Symbol: "SPY"}, wantSymbol: "SPY"},
		{name: "by id", key: model.FundKey{ID: spy.ID}, wantSymbol: "SPY"},
		{name: "unknown symbol", key: model.FundKey{Symbol: "NOPE"}, wantErr: dto.ErrFundNotFound},
		{name: "unknown id", key: model.FundKey{ID: 404}, wantErr: dto.ErrFundNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fund, err := s.GetFund(context.Background(), tt.key)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, fund)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSymbol, fund.Symbol)
			assert.Nil(t, fund.FundOverview)
			assert.Nil(t, fund.FundOperations)
		})
	}
}

func TestFundService_GetFundSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	spy := env.seedFund(t, "SPY")

	var holdings []model.ETFHolding
	var sectors []model.SectorAllocation
	for i := 1; i <= 7; i++ {
		holdings = append(holdings, model.ETFHolding{Symbol: ptr(fmt.Sprintf("H%d", i)), Weight: ptr(float64(i) / 100)})
		sectors = append(sectors, model.SectorAllocation{SectorName: fmt.Sprintf("Sector %d", i), AllocationPercentage: float64(i)})
	}
	require.NoError(t, env.repo.HoldingRepo.Replace(ctx, spy.ID, holdings))
	require.NoError(t, env.repo.SectorAllocationRepo.Replace(ctx, spy.ID, sectors))

	summary, err := newFundService(env).GetFundSummary(ctx, model.FundKey{Symbol: "SPY"})
	require.NoError(t, err)
	assert.Equal(t, "SPY", summary.Fund.Symbol)
	assert.Equal(t, 7, summary.TotalHoldings)
	assert.Equal(t, 7, summary.TotalSectors)
	require.Len(t, summary.TopHoldings, 5)
	require.Len(t, summary.TopSectors, 5)
	assert.Equal(t, "H7", *summary.TopHoldings[0].Symbol)
	assert.Equal(t, "SPY", summary.TopHoldings[0].EtfSymbol)
	assert.Equal(t, "Sector 7", summary.TopSectors[0].SectorName)
}

func TestFundService_InsertFund(t *testing.T) {
	tests := []struct {
		name        string
		symbol      string
		existing    bool
		providerErr error
		wantErr     error
		wantSuccess bool
		wantMessage string
	}{
		{
			name:        "invalid symbol",
			symbol:      "not a symbol",
			wantErr:     dto.ErrInvalidSymbol,
			wantMessage: "Invalid symbol: ",
		},
		{
			name:        "already stored",
			symbol:      "spy",
			existing:    true,
			wantErr:     dto.ErrFundAlreadyExists,
			wantMessage: "Fund SPY already exists",
		},
		{
			name:        "unknown to provider",
			symbol:      "ZZZZ",
			providerErr: fmt.Errorf("%w: ZZZZ", dto.ErrSymbolNotAvailable),
			wantErr:     dto.ErrSymbolNotAvailable,
			wantMessage: "Invalid symbol 'ZZZZ'. Please ensure this is a valid ETF or mutual fund symbol.",
		},
		{
			name:        "inserted",
			symbol:      " vti ",
			wantSuccess: true,
			wantMessage: "Successfully inserted fund VTI",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.existing {
				env.seedFund(t, "SPY")
			}
			if tt.providerErr != nil {
				env.yahoo.On("GetFundInfo", mock.Anything, mock.Anything).Return(nil, tt.providerErr)
			} else {
				env.yahoo.On("GetFundInfo", mock.Anything, mock.Anything).Return(fundInfoFixture("VTI"), nil)
			}

			result, err := newFundService(env).InsertFund(context.Background(), dto.InsertFundRequest{
				Symbol:         tt.symbol,
				IncludeHistory: ptr(false),
			})
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
			}
			require.NotNil(t, result)
			assert.Equal(t, tt.wantSuccess, result.Success)
			assert.Contains(t, result.Message, tt.wantMessage)
			if tt.wantSuccess || tt.existing {
				require.NotNil(t, result.Fund)
			}
		})
	}
}
