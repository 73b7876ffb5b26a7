package helper

import (
	"errors"
	"etf-dashboard/internal/dto"
	"etf-dashboard/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain ticker", raw: "SPY", want: "SPY"},
		{name: "lower case with spaces", raw: "  qqq ", want: "QQQ"},
		{name: "dot class share", raw: "brk.b", want: "BRK.B"},
		{name: "hyphen class share", raw: "BF-B", want: "BF-B"},
		{name: "ten characters", raw: "ABCDEFGHIJ", want: "ABCDEFGHIJ"},
		{name: "eleven characters", raw: "ABCDEFGHIJK", wantErr: true},
		{name: "empty", raw: "   ", wantErr: true},
		{name: "double dot", raw: "A..B", wantErr: true},
		{name: "leading hyphen", raw: "-SPY", wantErr: true},
		{name: "sql injection", raw: "SPY';DROP", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeSymbol(tt.raw)
			if tt.wantErr {
				assert.True(t, errors.Is(err, dto.ErrInvalidSymbol))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFundKey(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want model.FundKey
	}{
		{name: "numeric id", raw: "42", want: model.FundKey{ID: 42}},
		{name: "symbol upper-cased", raw: "spy", want: model.FundKey{Symbol: "SPY"}},
		{name: "alphanumeric symbol", raw: "3x1", want: model.FundKey{Symbol: "3X1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFundKey(tt.raw))
		})
	}
}

func TestSectorDisplayName(t *testing.T) {
	assert.Equal(t, "Consumer Cyclical", SectorDisplayName("consumer_cyclical"))
	assert.Equal(t, "Realestate", SectorDisplayName("realestate"))
	assert.Equal(t, "Communication Services", SectorDisplayName("communication_services"))
}
