package http

import (
	"etf-dashboard/internal/dto"
	"etf-dashboard/internal/helper"
	"etf-dashboard/pkg/utils"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupPrices(base *echo.Group) {
	prices := base.Group("/funds/:symbol_or_id/prices")
	prices.GET("", h.getPriceHistory)
	prices.GET("/latest", h.getLatestPrice)
	prices.GET("/summary", h.getPriceSummary)
}

func (h *HttpAPIHandler) getPriceHistory(c echo.Context) error {
	raw := c.Param("symbol_or_id")

	start, err := utils.ParseDate(c.QueryParam("start"))
	if err != nil {
		msg := fmt.Sprintf("Invalid start date format: %s. Use YYYY-MM-DD", c.QueryParam("start"))
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(msg))
	}
	end, err := utils.ParseDate(c.QueryParam("end"))
	if err != nil {
		msg := fmt.Sprintf("Invalid end date format: %s. Use YYYY-MM-DD", c.QueryParam("end"))
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(msg))
	}

	prices, err := h.service.PriceService.GetPriceHistory(c.Request().Context(), helper.ParseFundKey(raw), dto.GetPriceHistoryParam{
		Start: start,
		End:   end,
	})
	if err != nil {
		return h.errorResponse(c, raw, err)
	}
	return c.JSON(http.StatusOK, prices)
}

func (h *HttpAPIHandler) getLatestPrice(c echo.Context) error {
	raw := c.Param("symbol_or_id")
	latest, err := h.service.PriceService.GetLatestPrice(c.Request().Context(), helper.ParseFundKey(raw))
	if err != nil {
		return h.errorResponse(c, raw, err)
	}
	return c.JSON(http.StatusOK, latest)
}

func (h *HttpAPIHandler) getPriceSummary(c echo.Context) error {
	raw := c.Param("symbol_or_id")
	summary, err := h.service.PriceService.GetPriceSummary(c.Request().Context(), helper.ParseFundKey(raw))
	if err != nil {
		return h.errorResponse(c, raw, err)
	}
	return c.JSON(http.StatusOK, summary)
}
