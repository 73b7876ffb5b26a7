package http

import (
	"context"
	"errors"
	"etf-dashboard/internal/dto"
	"etf-dashboard/internal/service"
	"etf-dashboard/pkg/logger"
	"net/http"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const apiVersion = "0.1.0"

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
	log       *logger.Logger
}

func NewHttpAPIHandler(ctx context.Context, echo *echo.Echo, validator *goValidator.Validate, service *service.Service, log *logger.Logger) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      echo,
		validator: validator,
		service:   service,
		log:       log,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.GET("/", h.root)
	h.echo.GET("/health", h.health)

	base := h.echo.Group("/api")
	h.SetupFunds(base)
	h.SetupPrices(base)
	h.SetupCompare(base)
	h.SetupJobs(base)
}

func (h *HttpAPIHandler) root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Stock Dashboard API is running",
		"version": apiVersion,
	})
}

func (h *HttpAPIHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// errorResponse maps a service error onto a status code and message.
// fund is the path value the caller asked for.
func (h *HttpAPIHandler) errorResponse(c echo.Context, fund string, err error) error {
	var response *dto.BaseResponse
	switch {
	case errors.Is(err, dto.ErrFundNotFound) && fund != "":
		response = dto.NewNotFoundResponse("Fund not found: " + fund)
	case errors.Is(err, dto.ErrFundNotFound):
		response = dto.NewNotFoundResponse(err.Error())
	case errors.Is(err, dto.ErrNoPriceData):
		response = dto.NewNotFoundResponse("No price data available for fund: " + fund)
	case errors.Is(err, dto.ErrJobNotFound):
		response = dto.NewNotFoundResponse(err.Error())
	case errors.Is(err, dto.ErrInvalidSymbol),
		errors.Is(err, dto.ErrInvalidDate),
		errors.Is(err, dto.ErrInvalidCompare):
		response = dto.NewBadRequestResponse(err.Error())
	default:
		h.log.ErrorContext(c.Request().Context(), "Request failed", logger.ErrorField(err), logger.StringField("path", c.Path()))
		response = dto.NewInternalErrorResponse(err.Error())
	}
	return c.JSON(response.Code, response)
}
