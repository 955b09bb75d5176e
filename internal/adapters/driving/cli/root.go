// Package cli provides the command-line interface for Quarry.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services are injected by main before Execute runs. Commands check
// for nil and fail with a clear message instead of panicking.
var (
	ingestService  driving.IngestOrchestrator
	queryService   driving.QueryService
	sessionService driving.SessionService
	configStore    driven.ConfigStore
)

// HealthCheck verifies connectivity to one backing service.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// healthChecks drive `settings check`; injected by main alongside the
// services they probe.
var healthChecks []HealthCheck

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "quarry",
	Short: "Ingest web content and ask questions about it",
	Long: `Quarry is a retrieval-augmented generation CLI.

It scrapes web pages, chunks and embeds their content into a vector
index, and answers questions grounded in what was ingested.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetIngestService injects the ingestion orchestrator.
func SetIngestService(s driving.IngestOrchestrator) {
	ingestService = s
}

// SetQueryService injects the query service.
func SetQueryService(s driving.QueryService) {
	queryService = s
}

// SetSessionService injects the session service.
func SetSessionService(s driving.SessionService) {
	sessionService = s
}

// SetConfigStore injects the configuration store.
func SetConfigStore(s driven.ConfigStore) {
	configStore = s
}

// SetHealthChecks injects the backend connectivity checks used by
// `settings check`.
func SetHealthChecks(checks []HealthCheck) {
	healthChecks = checks
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}
