// Package main provides the entry point for the application tracker CLI and
// HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tracker_agent",
	Short: "Job application funnel tracker",
	Long:  "Tracks job applications through the funnel (planned, applied, interview, offer, rejected), attributes them to resume versions, and computes funnel analytics and insights.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
