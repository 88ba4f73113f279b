package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/server"
	"github.com/jonathan/resume-analyzer/internal/server/ratelimit"
)

var rateLimitWhitelist string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the résumé analysis endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&rateLimitWhitelist, "rate-limit-whitelist", "", "Comma-separated client IPs exempt from rate limiting")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	components, err := pipeline.NewFromConfig(ctx, cfg, pipeline.Options{}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize analyzer: %w", err)
	}
	defer func() {
		if err := components.Close(); err != nil {
			log.Warn("failed to close LLM client", zap.Error(err))
		}
	}()

	srv := server.New(components.Orchestrator, components.Extractor, server.Options{
		Port:      cfg.Port,
		RateLimit: ratelimit.NewConfig(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, rateLimitWhitelist),
	}, log)
	return srv.Start(ctx)
}
