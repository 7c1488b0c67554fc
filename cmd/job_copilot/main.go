// Package main provides the entry point for the Job Copilot HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "job_copilot",
	Short: "Job Copilot HTTP API Server",
	Long:  "Job Copilot tracks job postings, scores them against your profile and suggests resume tailoring, exposed as a REST API with a live event stream.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
