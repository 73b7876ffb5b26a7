package cmd

import (
	"context"
	"etf-dashboard/config"
	"etf-dashboard/internal/model"
	"etf-dashboard/internal/repository"
	"etf-dashboard/internal/service"
	"etf-dashboard/pkg/cache"
	"etf-dashboard/pkg/database"
	"etf-dashboard/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AppDependency struct {
	db        *database.DB
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDB(cfg.DB, log)
	if err != nil {
		log.Error("Failed to connect to database", logger.ErrorField(err))
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		if err := model.AutoMigrate(db.DB); err != nil {
			log.Error("Failed to auto migrate database", logger.ErrorField(err))
			_ = db.Close()
			return nil, err
		}
	}

	e := echo.New()
	e.HideBanner = true
	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: goValidator.New(),
		db:        db,
		echo:      e,
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
	}, nil
}

// Services wires repositories and services on top of the dependency set.
func (d *AppDependency) Services(ctx context.Context) (*service.Service, error) {
	repo := repository.NewRepository(d.cfg, d.db.DB, d.cache, d.log)
	services := service.NewService(d.cfg, d.log, repo)
	if err := services.SchedulerService.EnsureDefaultJobs(ctx); err != nil {
		d.log.Error("Failed to create default jobs", logger.ErrorField(err))
		return nil, err
	}
	return services, nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	defer func() {
		_ = d.log.Sync()
	}()
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
