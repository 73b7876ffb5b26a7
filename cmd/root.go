package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "etf-dashboard",
	Short: "ETF comparison dashboard backend",
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(seedCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
