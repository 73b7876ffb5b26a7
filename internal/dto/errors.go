package dto

import "errors"

var (
	ErrFundNotFound       = errors.New("fund not found")
	ErrNoPriceData        = errors.New("no price data available")
	ErrFundAlreadyExists  = errors.New("fund already exists")
	ErrInvalidSymbol      = errors.New("invalid symbol")
	ErrSymbolNotAvailable = errors.New("symbol not available from provider")
	ErrInvalidDate        = errors.New("invalid date")
	ErrJobNotFound        = errors.New("job not found")
	ErrInvalidCompare     = errors.New("invalid compare request")
)
