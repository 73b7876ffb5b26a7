package http

import (
	"etf-dashboard/internal/dto"
	"etf-dashboard/pkg/utils"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupCompare(base *echo.Group) {
	base.GET("/compare", h.compare)
}

func (h *HttpAPIHandler) compare(c echo.Context) error {
	req := new(dto.CompareRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid query parameters"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	start, err := utils.ParseDate(req.Start)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(fmt.Sprintf("Invalid start date format: %s. Use YYYY-MM-DD", req.Start)))
	}
	end, err := utils.ParseDate(req.End)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(fmt.Sprintf("Invalid end date format: %s. Use YYYY-MM-DD", req.End)))
	}

	result, err := h.service.CompareService.Compare(c.Request().Context(), dto.CompareParam{
		Symbols:  strings.Split(req.Symbols, ","),
		Start:    start,
		End:      end,
		Interval: req.Interval,
	})
	if err != nil {
		return h.errorResponse(c, "", err)
	}
	return c.JSON(http.StatusOK, result)
}
