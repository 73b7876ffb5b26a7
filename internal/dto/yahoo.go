package dto

import (
	"bytes"
	"encoding/json"
	"time"
)

// QuoteSummaryModules are requested from /v10/finance/quoteSummary.
var QuoteSummaryModules = []string{
	"price",
	"summaryDetail",
	"defaultKeyStatistics",
	"fundProfile",
	"topHoldings",
	"quoteType",
	"assetProfile",
	"summaryProfile",
}

// YahooValue is the {raw, fmt} pair most quoteSummary numbers come wrapped in.
// Plain numbers decode into Raw as well.
type YahooValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

func (v *YahooValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] != '{' {
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return nil
		}
		v.Raw = &f
		return nil
	}
	type alias YahooValue
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*v = YahooValue(a)
	return nil
}

type YahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type YahooQuoteResponse struct {
	QuoteResponse struct {
		Result []map[string]interface{} `json:"result"`
		Error  *YahooError              `json:"error"`
	} `json:"quoteResponse"`
}

type YahooQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *YahooError                  `json:"error"`
	} `json:"quoteSummary"`
}

type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string  `json:"symbol"`
				Currency             string  `json:"currency"`
				ExchangeTimezoneName string  `json:"exchangeTimezoneName"`
				RegularMarketPrice   float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *YahooError `json:"error"`
	} `json:"chart"`
}

type TopHolding struct {
	Symbol         string     `json:"symbol"`
	HoldingName    string     `json:"holdingName"`
	HoldingPercent YahooValue `json:"holdingPercent"`
}

type EquityHoldings struct {
	PriceToEarnings    YahooValue `json:"priceToEarnings"`
	PriceToBook        YahooValue `json:"priceToBook"`
	PriceToSales       YahooValue `json:"priceToSales"`
	PriceToCashflow    YahooValue `json:"priceToCashflow"`
	MedianMarketCap    YahooValue `json:"medianMarketCap"`
	PriceToEarningsCat YahooValue `json:"priceToEarningsCat"`
	PriceToBookCat     YahooValue `json:"priceToBookCat"`
	PriceToSalesCat    YahooValue `json:"priceToSalesCat"`
}

type TopHoldingsModule struct {
	Holdings         []TopHolding            `json:"holdings"`
	EquityHoldings   *EquityHoldings         `json:"equityHoldings"`
	SectorWeightings []map[string]YahooValue `json:"sectorWeightings"`
}

type FundFees struct {
	AnnualReportExpenseRatio YahooValue `json:"annualReportExpenseRatio"`
	AnnualHoldingsTurnover   YahooValue `json:"annualHoldingsTurnover"`
	TotalNetAssets           YahooValue `json:"totalNetAssets"`
}

type FundProfileModule struct {
	CategoryName              string    `json:"categoryName"`
	Family                    string    `json:"family"`
	LegalType                 string    `json:"legalType"`
	FeesExpensesInvestment    *FundFees `json:"feesExpensesInvestment"`
	FeesExpensesInvestmentCat *FundFees `json:"feesExpensesInvestmentCat"`
}

// FundsData is the fund specific part of a quote summary.
type FundsData struct {
	TopHoldings *TopHoldingsModule
	FundProfile *FundProfileModule
	Description string
}

// SectorWeight is one entry of TopHoldingsModule.SectorWeightings flattened.
type SectorWeight struct {
	Key    string
	Weight float64
}

func (m *TopHoldingsModule) Sectors() []SectorWeight {
	if m == nil {
		return nil
	}
	var out []SectorWeight
	for _, entry := range m.SectorWeightings {
		for key, value := range entry {
			if value.Raw == nil {
				continue
			}
			out = append(out, SectorWeight{Key: key, Weight: *value.Raw})
		}
	}
	return out
}

// FundInfo is everything one quote lookup returns for a symbol.
type FundInfo struct {
	Symbol string
	Info   QuoteInfo
	Funds  FundsData
}

// QuoteInfo is the flat key/value view of a quote: quoteSummary modules
// unwrapped to raw scalars, overlaid by the /v7 quote fields.
type QuoteInfo map[string]interface{}

func (q QuoteInfo) Float(key string) *float64 {
	switch v := q[key].(type) {
	case float64:
		return &v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil
		}
		return &f
	case int64:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	}
	return nil
}

func (q QuoteInfo) Int(key string) *int64 {
	f := q.Float(key)
	if f == nil {
		return nil
	}
	i := int64(*f)
	return &i
}

func (q QuoteInfo) String(key string) *string {
	v, ok := q[key].(string)
	if !ok || v == "" {
		return nil
	}
	return &v
}

func (q QuoteInfo) Bool(key string) *bool {
	v, ok := q[key].(bool)
	if !ok {
		return nil
	}
	return &v
}

// Date reads an epoch seconds value as a UTC calendar date.
func (q QuoteInfo) Date(key string) *time.Time {
	secs := q.Int(key)
	if secs == nil {
		return nil
	}
	t := time.Unix(*secs, 0).UTC().Truncate(24 * time.Hour)
	return &t
}

type ChartBar struct {
	Date     time.Time
	Open     *float64
	High     *float64
	Low      *float64
	Close    float64
	AdjClose *float64
	Volume   *int64
}

type ChartData struct {
	Symbol   string
	Currency string
	Range    string
	Interval string
	Bars     []ChartBar
}
