package cmd

import (
	"context"
	"etf-dashboard/internal/delivery/http"
	"etf-dashboard/pkg/logger"
	etfMiddleware "etf-dashboard/pkg/middleware"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type HTTPServer struct {
	ctx     context.Context
	appDep  *AppDependency
	handler *http.HttpAPIHandler
}

func NewHTTPServer(ctx context.Context, appDep *AppDependency, handler *http.HttpAPIHandler) *HTTPServer {
	return &HTTPServer{
		ctx:     ctx,
		appDep:  appDep,
		handler: handler,
	}
}

func (s *HTTPServer) Start() error {
	s.appDep.log.Info("Starting HTTP server", logger.IntField("port", s.appDep.cfg.API.Port))
	address := fmt.Sprintf(":%d", s.appDep.cfg.API.Port)

	s.SetupMiddleware()
	s.SetupRoutes()

	return s.appDep.echo.Start(address)
}

func (s *HTTPServer) Stop() error {
	s.appDep.log.Info("Shutting down HTTP server")

	ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), 10*time.Second)
	defer cancel()

	stopDone := make(chan error, 1)
	go func() {
		err := s.appDep.echo.Shutdown(ctx)
		if err != nil {
			s.appDep.log.Error("Error When Stop HTTP server", logger.ErrorField(err))
		}
		stopDone <- nil
	}()

	select {
	case <-stopDone:
		s.appDep.log.Info("HTTP server stopped successfully")
	case <-ctx.Done():
		s.appDep.log.Warn("Timeout while stopping HTTP server, forcing shutdown")
	}
	return nil
}

func (s *HTTPServer) SetupMiddleware() {
	e := s.appDep.echo
	log := s.appDep.log

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.ErrorContext(c.Request().Context(), "Recovered from panic",
				logger.ErrorField(err),
				logger.StringField("stack", string(stack)),
			)
			return err
		},
	}))
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, requestID string) {
			reqLog := log.With(logger.StringField("request_id", requestID))
			c.SetRequest(c.Request().WithContext(logger.NewContext(c.Request().Context(), reqLog)))
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.appDep.cfg.API.AllowedOrigins,
	}))
	e.Use(etfMiddleware.NewRateLimiterMiddleware(s.appDep.cfg.API))
}

func (s *HTTPServer) SetupRoutes() {
	s.handler.SetupRoutes()
}
