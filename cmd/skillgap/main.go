// Package main provides the entry point for the SkillGap Recommender API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "skillgap",
	Short: "SkillGap Recommender API Server",
	Long:  "SkillGap Recommender extracts skills from uploaded CVs, matches them against job requirements, and suggests courses for the gaps via REST API.",
}

// newLogger builds the process logger. LOG_LEVEL=debug switches to
// development output.
func newLogger() (*zap.Logger, error) {
	if os.Getenv("LOG_LEVEL") == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
