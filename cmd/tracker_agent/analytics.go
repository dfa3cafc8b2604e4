package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/application-tracker/internal/analytics"
	"github.com/jonathan/application-tracker/internal/db"
	"github.com/jonathan/application-tracker/internal/observability"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Print the funnel summary for a user",
	Long:  "Aggregates the user's applications into funnel counts, response and success rates, per-company and per-title breakdowns, and monthly volume.",
	RunE:  runAnalytics,
}

var (
	analyticsUserID      string
	analyticsDatabaseURL string
)

func init() {
	analyticsCmd.Flags().StringVarP(&analyticsUserID, "user-id", "u", "", "User ID (required)")
	analyticsCmd.Flags().StringVar(&analyticsDatabaseURL, "db-url", "", "Database URL (defaults to DATABASE_URL)")

	if err := analyticsCmd.MarkFlagRequired("user-id"); err != nil {
		panic(fmt.Sprintf("failed to mark user-id flag as required: %v", err))
	}

	rootCmd.AddCommand(analyticsCmd)
}

func runAnalytics(_ *cobra.Command, _ []string) error {
	summary, err := loadSummary(analyticsUserID, analyticsDatabaseURL)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintSummary(&summary)
	printer.PrintTimeSeries(summary.TimeSeries)
	return nil
}

// loadSummary connects to the database and aggregates the user's funnel.
func loadSummary(userIDStr, databaseURL string) (analytics.Summary, error) {
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return analytics.Summary{}, fmt.Errorf("invalid user ID: %w", err)
	}

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return analytics.Summary{}, fmt.Errorf("database URL is required (--db-url or DATABASE_URL)")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return analytics.Summary{}, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	pairs, err := database.ListApplicationsWithMetrics(ctx, userID)
	if err != nil {
		return analytics.Summary{}, fmt.Errorf("failed to load applications: %w", err)
	}

	return analytics.Aggregate(pairs, time.Now().UTC()), nil
}
