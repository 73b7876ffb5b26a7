package http

import (
	"errors"
	"etf-dashboard/internal/dto"
	"etf-dashboard/internal/helper"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupFunds(base *echo.Group) {
	funds := base.Group("/funds")
	funds.GET("", h.listFunds)
	funds.POST("", h.insertFund)
	funds.GET("/:symbol_or_id", h.getFund)
	funds.GET("/:symbol_or_id/holdings", h.getHoldings)
	funds.GET("/:symbol_or_id/sectors", h.getSectorAllocations)
	funds.GET("/:symbol_or_id/summary", h.getFundSummary)
}

func (h *HttpAPIHandler) listFunds(c echo.Context) error {
	funds, err := h.service.FundService.ListFunds(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, "", err)
	}
	return c.JSON(http.StatusOK, funds)
}

func (h *HttpAPIHandler) getFund(c echo.Context) error {
	raw := c.Param("symbol_or_id")
	fund, err := h.service.FundService.GetFund(c.Request().Context(), helper.ParseFundKey(raw))
	if err != nil {
		return h.errorResponse(c, raw, err)
	}
	return c.JSON(http.StatusOK, fund)
}

func (h *HttpAPIHandler) getHoldings(c echo.Context) error {
	raw := c.Param("symbol_or_id")
	holdings, err := h.service.FundService.GetHoldings(c.Request().Context(), helper.ParseFundKey(raw))
	if err != nil {
		return h.errorResponse(c, raw, err)
	}
	return c.JSON(http.StatusOK, holdings)
}

func (h *HttpAPIHandler) getSectorAllocations(c echo.Context) error {
	raw := c.Param("symbol_or_id")
	sectors, err := h.service.FundService.GetSectorAllocations(c.Request().Context(), helper.ParseFundKey(raw))
	if err != nil {
		return h.errorResponse(c, raw, err)
	}
	return c.JSON(http.StatusOK, sectors)
}

func (h *HttpAPIHandler) getFundSummary(c echo.Context) error {
	raw := c.Param("symbol_or_id")
	summary, err := h.service.FundService.GetFundSummary(c.Request().Context(), helper.ParseFundKey(raw))
	if err != nil {
		return h.errorResponse(c, raw, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *HttpAPIHandler) insertFund(c echo.Context) error {
	req := new(dto.InsertFundRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	result, err := h.service.FundService.InsertFund(c.Request().Context(), *req)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, result)
	case result != nil && (errors.Is(err, dto.ErrInvalidSymbol) ||
		errors.Is(err, dto.ErrFundAlreadyExists) ||
		errors.Is(err, dto.ErrSymbolNotAvailable)):
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(result.Message))
	default:
		return h.errorResponse(c, req.Symbol, err)
	}
}
