// Package main provides the entry point for the résumé analyzer CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debugLog   bool
	jsonLog    bool
)

var rootCmd = &cobra.Command{
	Use:   "resume_analyzer",
	Short: "Résumé evidence analyzer",
	Long: "Résumé analyzer scores a résumé against a job posting, analyzes the candidate's public " +
		"GitHub repositories and merges both into one evidence-based hiring report.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "log-json", false, "Log as JSON instead of console text")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
