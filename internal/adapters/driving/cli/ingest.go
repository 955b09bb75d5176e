package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

var ingestMode string

var ingestCmd = &cobra.Command{
	Use:   "ingest [url]",
	Short: "Ingest a web page or site into the index",
	Long: `Scrapes the given URL, splits the content into chunks, embeds them
and stores the vectors in the index, then prints a short summary.

Modes:
  single_page  - fetch just the given page (default)
  full_site    - crawl the site starting at the given page`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestMode, "mode", "m", domain.FetchSinglePage.String(),
		"fetch mode: single_page or full_site")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	url := args[0]

	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	mode := domain.FetchMode(ingestMode)
	if !mode.IsValid() {
		return fmt.Errorf("invalid mode %q: use %s or %s", ingestMode,
			domain.FetchSinglePage, domain.FetchFullSite)
	}

	ctx := context.Background()
	cmd.Printf("Ingesting %s (%s)...\n", url, mode)

	result, err := ingestService.Ingest(ctx, url, mode)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	cmd.Println()
	cmd.Printf("Documents fetched: %d\n", result.DocumentsFetched)
	cmd.Printf("Chunks stored:     %d of %d\n", result.ChunksStored, result.ChunksTotal)
	cmd.Println()
	cmd.Println("Summary:")
	cmd.Println(result.Summary)

	if sessionService != nil {
		if err := sessionService.RecordIngestion(ctx, url, mode, result); err != nil {
			logger.Warn("failed to record ingestion: %v", err)
		}
	}

	return nil
}
