package cmd

import (
	"context"
	"encoding/json"
	"etf-dashboard/internal/service"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var seedMode string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate or clear the database",
	Run:   Seed,
}

func init() {
	seedCmd.Flags().StringVar(&seedMode, "mode", service.SeedModeDemo,
		fmt.Sprintf("%s: sample funds with random prices, %s: ingest popular funds, %s: delete every fund",
			service.SeedModeDemo, service.SeedModeReal, service.SeedModeClear))
}

func Seed(cmd *cobra.Command, args []string) {
	ctx := context.Background()
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

	report, err := services.SeedService.Seed(ctx, seedMode)
	if err != nil {
		_ = appDep.Close()
		log.Fatalf("Seed failed: %v", err)
	}
	out, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(out))
}
