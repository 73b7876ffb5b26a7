package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var noHistory bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [SYMBOL...]",
	Short: "Fetch funds from Yahoo Finance into the database",
	Long:  "Fetch funds from Yahoo Finance into the database. Without arguments the configured popular symbols are ingested.",
	Run:   Ingest,
}

func init() {
	ingestCmd.Flags().BoolVar(&noHistory, "no-history", false, "skip price history")
}

func Ingest(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer func() {
		_ = appDep.Close()
	}()

	services, err := appDep.Services(ctx)
	if err != nil {
		log.Fatalf("Failed to create services: %v", err)
	}

	symbols := args
	if len(symbols) == 0 {
		symbols = services.IngestionService.PopularSymbols()
	}

	report := services.IngestionService.IngestSymbols(ctx, symbols, !noHistory)
	out, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(out))
	if report.Failed > 0 {
		stop()
		_ = appDep.Close()
		os.Exit(1)
	}
}
