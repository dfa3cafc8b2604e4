package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/application-tracker/internal/db"
	"github.com/jonathan/application-tracker/internal/fetch"
	"github.com/jonathan/application-tracker/internal/ingestion"
	"github.com/jonathan/application-tracker/internal/llm"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch a job posting URL into the posting cache",
	Long:  "Fetches a job posting page, extracts its text, role title, and company, and upserts it into the posting cache. Without --db-url the extracted fields are printed instead of stored.",
	RunE:  runIngest,
}

var (
	ingestURL         string
	ingestDatabaseURL string
	ingestAPIKey      string
	ingestUseBrowser  bool
	ingestVerbose     bool
)

func init() {
	ingestCmd.Flags().StringVar(&ingestURL, "url", "", "Job posting URL (required)")
	ingestCmd.Flags().StringVar(&ingestDatabaseURL, "db-url", "", "Database URL (defaults to DATABASE_URL)")
	ingestCmd.Flags().StringVar(&ingestAPIKey, "api-key", "", "Gemini API key for field extraction (defaults to GEMINI_API_KEY)")
	ingestCmd.Flags().BoolVar(&ingestUseBrowser, "use-browser", false, "Fall back to a headless browser for JavaScript-rendered job boards")
	ingestCmd.Flags().BoolVar(&ingestVerbose, "verbose", false, "Print detailed progress information")

	if err := ingestCmd.MarkFlagRequired("url"); err != nil {
		panic(fmt.Sprintf("failed to mark url flag as required: %v", err))
	}

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	apiKey := ingestAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	var client llm.Client
	if apiKey != "" {
		var err error
		client, err = llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
		if err != nil {
			return fmt.Errorf("failed to create generation client: %w", err)
		}
		defer func() { _ = client.Close() }()
	}

	fetcher := fetch.NewFetcher(
		fetch.WithBrowserFallback(ingestUseBrowser),
		fetch.WithVerbose(ingestVerbose),
	)
	ingestor := ingestion.NewIngestor(fetcher, client)
	ingestor.SetVerbose(ingestVerbose)

	input, err := ingestor.Ingest(ctx, ingestURL)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	databaseURL := ingestDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		printPostingInput(input)
		return nil
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	posting, err := database.UpsertJobPosting(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to store posting: %w", err)
	}

	fmt.Printf("Stored posting %s\n", posting.ID)
	printPostingInput(input)
	return nil
}

func printPostingInput(input *db.JobPostingCreateInput) {
	if input.RoleTitle != nil {
		fmt.Printf("Role:     %s\n", *input.RoleTitle)
	}
	if input.Company != nil {
		fmt.Printf("Company:  %s\n", *input.Company)
	}
	if input.Platform != nil {
		fmt.Printf("Platform: %s\n", *input.Platform)
	}
	if input.CleanedText != nil {
		fmt.Printf("Text:     %d chars\n", len(*input.CleanedText))
	}
}
