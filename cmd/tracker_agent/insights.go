package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/application-tracker/internal/insights"
	"github.com/jonathan/application-tracker/internal/observability"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Print rule-based insights for a user's funnel",
	Long:  "Runs the insight rules (response rate, response speed, planned backlog, standout companies, method gap) over the user's funnel summary.",
	RunE:  runInsights,
}

var (
	insightsUserID      string
	insightsDatabaseURL string
)

func init() {
	insightsCmd.Flags().StringVarP(&insightsUserID, "user-id", "u", "", "User ID (required)")
	insightsCmd.Flags().StringVar(&insightsDatabaseURL, "db-url", "", "Database URL (defaults to DATABASE_URL)")

	if err := insightsCmd.MarkFlagRequired("user-id"); err != nil {
		panic(fmt.Sprintf("failed to mark user-id flag as required: %v", err))
	}

	rootCmd.AddCommand(insightsCmd)
}

func runInsights(_ *cobra.Command, _ []string) error {
	summary, err := loadSummary(insightsUserID, insightsDatabaseURL)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintInsights(insights.Generate(summary))
	return nil
}
