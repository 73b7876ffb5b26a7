package helper

import (
	"etf-dashboard/internal/dto"
	"etf-dashboard/internal/model"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const MaxSymbolLength = 10

var symbolPattern = regexp.MustCompile(`^[A-Z0-9]+([.-][A-Z0-9]+)*$`)

// NormalizeSymbol trims and upper-cases a ticker and rejects anything that is
// not 1-10 alphanumerics with single dots or hyphens in between (BRK.B, BF-B).
func NormalizeSymbol(raw string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if symbol == "" {
		return "", fmt.Errorf("%w: symbol must be a non-empty string", dto.ErrInvalidSymbol)
	}
	if !symbolPattern.MatchString(symbol) || len(symbol) > MaxSymbolLength {
		return "", fmt.Errorf("%w: invalid symbol format: %s. Must be 1-10 alphanumeric characters with optional single dots or hyphens", dto.ErrInvalidSymbol, symbol)
	}
	return symbol, nil
}

// ParseFundKey reads a path value as a fund id when it is all digits and as
// an upper-cased symbol otherwise.
func ParseFundKey(raw string) model.FundKey {
	if raw != "" && strings.Trim(raw, "0123456789") == "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return model.FundKey{ID: uint(id)}
		}
	}
	return model.FundKey{Symbol: strings.ToUpper(raw)}
}

var sectorTitle = cases.Title(language.English)

// SectorDisplayName turns a provider sector key such as consumer_cyclical
// into Consumer Cyclical.
func SectorDisplayName(key string) string {
	return sectorTitle.String(strings.ReplaceAll(key, "_", " "))
}
