package service

import (
	"etf-dashboard/internal/dto"
	"etf-dashboard/internal/helper"
	"etf-dashboard/internal/model"
	"time"
)

// applyQuoteInfo copies the provider quote onto etf. Keys the provider did
// not send become nil so stale values do not linger.
func applyQuoteInfo(etf *model.ETF, info dto.QuoteInfo) {
	if name := info.String("longName"); name != nil {
		etf.Name = *name
	} else {
		etf.Name = etf.Symbol
	}

	etf.Category = info.String("category")
	etf.Family = info.String("fundFamily")
	etf.Exchange = info.String("exchange")
	etf.FullExchangeName = info.String("fullExchangeName")
	etf.Currency = info.String("currency")
	etf.Country = info.String("country")
	etf.LegalType = info.String("legalType")

	etf.NetAssets = info.Float("totalAssets")
	etf.Nav = info.Float("navPrice")
	etf.ExpenseRatio = info.Float("annualReportExpenseRatio")
	etf.YieldRate = info.Float("yield")
	etf.PeRatio = info.Float("trailingPE")
	etf.PbRatio = info.Float("priceToBook")
	etf.Beta = info.Float("beta")

	etf.YtdReturn = info.Float("ytdReturn")
	etf.ThreeYearReturn = info.Float("threeYearAverageReturn")
	etf.FiveYearReturn = info.Float("fiveYearAverageReturn")
	etf.TrailingThreeMonthReturns = info.Float("trailingThreeMonthReturns")
	etf.FundInceptionDate = info.Date("fundInceptionDate")

	etf.Website = info.String("website")
	etf.Summary = info.String("longBusinessSummary")
	etf.LongName = info.String("longName")
	etf.ShortName = info.String("shortName")

	etf.FiftyDayAverage = info.Float("fiftyDayAverage")
	etf.TwoHundredDayAverage = info.Float("twoHundredDayAverage")
	etf.FiftyTwoWeekHigh = info.Float("fiftyTwoWeekHigh")
	etf.FiftyTwoWeekLow = info.Float("fiftyTwoWeekLow")

	etf.AverageVolume = info.Float("averageVolume")
	etf.AverageVolume10Days = info.Float("averageVolume10days")
	etf.AverageDailyVolume3Month = info.Float("averageDailyVolume3Month")
	etf.SharesOutstanding = info.Float("sharesOutstanding")
	etf.MarketCap = info.Float("marketCap")

	etf.CurrentPrice = info.Float("regularMarketPrice")
	etf.DayHigh = info.Float("dayHigh")
	etf.DayLow = info.Float("dayLow")
	etf.PreviousClose = info.Float("previousClose")

	etf.TrailingAnnualDividendRate = info.Float("trailingAnnualDividendRate")
	etf.TrailingAnnualDividendYield = info.Float("trailingAnnualDividendYield")

	etf.OpenPrice = info.Float("open")
	etf.RegularMarketOpen = info.Float("regularMarketOpen")
	etf.RegularMarketDayLow = info.Float("regularMarketDayLow")
	etf.RegularMarketDayHigh = info.Float("regularMarketDayHigh")
	etf.RegularMarketPreviousClose = info.Float("regularMarketPreviousClose")
	etf.RegularMarketPrice = info.Float("regularMarketPrice")
	etf.RegularMarketVolume = info.Float("regularMarketVolume")
	etf.RegularMarketChange = info.Float("regularMarketChange")
	etf.RegularMarketChangePercent = info.Float("regularMarketChangePercent")
	etf.RegularMarketDayRange = info.String("regularMarketDayRange")

	etf.Bid = info.Float("bid")
	etf.Ask = info.Float("ask")
	etf.BidSize = info.Int("bidSize")
	etf.AskSize = info.Int("askSize")

	etf.PostMarketPrice = info.Float("postMarketPrice")
	etf.PostMarketChange = info.Float("postMarketChange")
	etf.PostMarketChangePercent = info.Float("postMarketChangePercent")

	etf.Volume = info.Float("volume")
	etf.AverageDailyVolume10Day = info.Float("averageDailyVolume10Day")

	etf.FiftyTwoWeekChangePercent = info.Float("fiftyTwoWeekChangePercent")
	etf.FiftyTwoWeekLowChange = info.Float("fiftyTwoWeekLowChange")
	etf.FiftyTwoWeekLowChangePercent = info.Float("fiftyTwoWeekLowChangePercent")
	etf.FiftyTwoWeekHighChange = info.Float("fiftyTwoWeekHighChange")
	etf.FiftyTwoWeekHighChangePercent = info.Float("fiftyTwoWeekHighChangePercent")
	etf.FiftyTwoWeekRange = info.String("fiftyTwoWeekRange")

	etf.FiftyDayAverageChange = info.Float("fiftyDayAverageChange")
	etf.FiftyDayAverageChangePercent = info.Float("fiftyDayAverageChangePercent")
	etf.TwoHundredDayAverageChange = info.Float("twoHundredDayAverageChange")
	etf.TwoHundredDayAverageChangePercent = info.Float("twoHundredDayAverageChangePercent")

	etf.BookValue = info.Float("bookValue")
	etf.DividendYield = info.Float("dividendYield")
	etf.TrailingThreeMonthNavReturns = info.Float("trailingThreeMonthNavReturns")
	etf.EpsTrailingTwelveMonths = info.Float("epsTrailingTwelveMonths")
	etf.TrailingPegRatio = info.Float("trailingPegRatio")
	etf.TotalAssets = info.Float("totalAssets")
	etf.NetExpenseRatio = info.Float("netExpenseRatio")
	etf.PriceToBook = info.Float("priceToBook")

	etf.QuoteType = info.String("quoteType")
	etf.Market = info.String("market")
	etf.ExchangeTimezoneName = info.String("exchangeTimezoneName")
	etf.ExchangeTimezoneShortName = info.String("exchangeTimezoneShortName")
	etf.GmtOffsetMilliseconds = info.Int("gmtOffSetMilliseconds")
	etf.MarketState = info.String("marketState")
	etf.Language = info.String("language")
	etf.Region = info.String("region")
	etf.TypeDisp = info.String("typeDisp")
	etf.QuoteSourceName = info.String("quoteSourceName")

	etf.Tradeable = info.Bool("tradeable")
	etf.CryptoTradeable = info.Bool("cryptoTradeable")
	etf.HasPrePostMarketData = info.Bool("hasPrePostMarketData")
	etf.Triggerable = info.Bool("triggerable")
	etf.EsgPopulated = info.Bool("esgPopulated")

	etf.PriceHint = info.Int("priceHint")
	etf.SourceInterval = info.Int("sourceInterval")
	etf.ExchangeDataDelayedBy = info.Int("exchangeDataDelayedBy")
	etf.MaxAge = info.Int("maxAge")

	etf.FirstTradeDateMilliseconds = info.Int("firstTradeDateMilliseconds")
	etf.RegularMarketTime = info.Int("regularMarketTime")
	etf.PostMarketTime = info.Int("postMarketTime")

	etf.MessageBoardID = info.String("messageBoardId")
	etf.FinancialCurrency = info.String("financialCurrency")
	etf.CustomPriceAlertConfidence = info.String("customPriceAlertConfidence")
}

func mapHoldings(funds dto.FundsData, asOf time.Time) []model.ETFHolding {
	if funds.TopHoldings == nil {
		return nil
	}
	holdings := make([]model.ETFHolding, 0, len(funds.TopHoldings.Holdings))
	for _, h := range funds.TopHoldings.Holdings {
		h := h
		holding := model.ETFHolding{
			Weight:   h.HoldingPercent.Raw,
			AsOfDate: &asOf,
		}
		if h.Symbol != "" {
			holding.Symbol = &h.Symbol
		}
		if h.HoldingName != "" {
			holding.Name = &h.HoldingName
		}
		holdings = append(holdings, holding)
	}
	return holdings
}

func mapSectors(funds dto.FundsData, asOf time.Time) []model.SectorAllocation {
	var sectors []model.SectorAllocation
	for _, s := range funds.TopHoldings.Sectors() {
		if s.Weight <= 0 {
			continue
		}
		sectors = append(sectors, model.SectorAllocation{
			SectorName:           helper.SectorDisplayName(s.Key),
			AllocationPercentage: s.Weight * 100,
			AsOfDate:             &asOf,
		})
	}
	return sectors
}

func mapFundOperations(funds dto.FundsData, asOf time.Time) *model.FundOperations {
	if funds.FundProfile == nil || funds.FundProfile.FeesExpensesInvestment == nil {
		return nil
	}
	fees := funds.FundProfile.FeesExpensesInvestment
	ops := &model.FundOperations{
		AnnualReportExpenseRatio: fees.AnnualReportExpenseRatio.Raw,
		AnnualHoldingsTurnover:   fees.AnnualHoldingsTurnover.Raw,
		TotalNetAssets:           fees.TotalNetAssets.Raw,
		AsOfDate:                 &asOf,
	}
	if cat := funds.FundProfile.FeesExpensesInvestmentCat; cat != nil {
		ops.CategoryAverageExpenseRatio = cat.AnnualReportExpenseRatio.Raw
		ops.CategoryAverageTurnover = cat.AnnualHoldingsTurnover.Raw
	}
	return ops
}

func mapEquityMetrics(funds dto.FundsData, asOf time.Time) *model.EquityMetrics {
	if funds.TopHoldings == nil || funds.TopHoldings.EquityHoldings == nil {
		return nil
	}
	eq := funds.TopHoldings.EquityHoldings
	return &model.EquityMetrics{
		FundPriceEarnings:     eq.PriceToEarnings.Raw,
		FundPriceBook:         eq.PriceToBook.Raw,
		FundPriceSales:        eq.PriceToSales.Raw,
		FundPriceCashflow:     eq.PriceToCashflow.Raw,
		FundMedianMarketCap:   eq.MedianMarketCap.Raw,
		CategoryPriceEarnings: eq.PriceToEarningsCat.Raw,
		CategoryPriceBook:     eq.PriceToBookCat.Raw,
		CategoryPriceSales:    eq.PriceToSalesCat.Raw,
		AsOfDate:              &asOf,
	}
}

func mapFundOverview(funds dto.FundsData) *model.FundOverview {
	if funds.FundProfile == nil && funds.Description == "" {
		return nil
	}
	overview := &model.FundOverview{}
	if p := funds.FundProfile; p != nil {
		overview.CategoryName = nonEmpty(p.CategoryName)
		overview.Family = nonEmpty(p.Family)
		overview.LegalType = nonEmpty(p.LegalType)
	}
	overview.Description = nonEmpty(funds.Description)
	return overview
}

func mapPriceBars(etfID uint, bars []dto.ChartBar) []model.ETFPriceHistory {
	prices := make([]model.ETFPriceHistory, 0, len(bars))
	for _, b := range bars {
		prices = append(prices, model.ETFPriceHistory{
			EtfID:         etfID,
			Date:          b.Date,
			OpenPrice:     b.Open,
			HighPrice:     b.High,
			LowPrice:      b.Low,
			ClosePrice:    b.Close,
			AdjustedClose: b.AdjClose,
			Volume:        b.Volume,
		})
	}
	return prices
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
