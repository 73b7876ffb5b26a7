package cmd

import (
	"context"
	"etf-dashboard/internal/delivery/http"
	"etf-dashboard/internal/service"
	"etf-dashboard/pkg/logger"
	"log"
	httpNet "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the ETF dashboard API",
	Run:   Start,
}

func Start(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	services, err := appDep.Services(ctx)
	if err != nil {
		log.Fatalf("Failed to create services: %v", err)
	}
	httpHandler := http.NewHttpAPIHandler(ctx, appDep.echo, appDep.validator, services, appDep.log)

	apiServer := NewHTTPServer(ctx, appDep, httpHandler)
	go func() {
		if err := apiServer.Start(); err != nil && err != httpNet.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	ticker, err := startSchedulerTicker(ctx, appDep, services.SchedulerService)
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	<-ctx.Done()
	log.Println("Shutting down gracefully...")

	if err := shutdown(ticker, apiServer, services.SchedulerService); err != nil {
		log.Fatalf("Failed to stop HTTP server: %v", err)
	}

	if err := appDep.Close(); err != nil {
		log.Fatalf("Failed to close app dependency: %v", err)
	}
}

type stopper interface {
	Stop() error
}

type waiter interface {
	Wait()
}

// shutdown stops every source of new job runs (the ticker, then the API)
// before waiting for the runs already in flight.
func shutdown(ticker *cron.Cron, api stopper, scheduler waiter) error {
	if ticker != nil {
		<-ticker.Stop().Done()
	}
	if err := api.Stop(); err != nil {
		return err
	}
	scheduler.Wait()
	return nil
}

// startSchedulerTicker checks for due jobs on scheduler.tick. It returns nil
// when the in-process scheduler is disabled.
func startSchedulerTicker(ctx context.Context, appDep *AppDependency, scheduler service.SchedulerService) (*cron.Cron, error) {
	cfg := appDep.cfg.Scheduler
	if !cfg.Enabled {
		appDep.log.Info("In-process scheduler disabled")
		return nil, nil
	}

	c := cron.New(cron.WithParser(service.NewCronParser()), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(cfg.Tick, func() {
		if err := scheduler.Execute(ctx); err != nil {
			appDep.log.ErrorContext(ctx, "Scheduled job check failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	appDep.log.Info("In-process scheduler started", logger.StringField("tick", cfg.Tick))
	return c, nil
}
