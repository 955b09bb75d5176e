package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the chat history",
	RunE:  runHistoryShow,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the chat history",
	RunE:  runHistoryClear,
}

var historyIngestionsCmd = &cobra.Command{
	Use:   "ingestions",
	Short: "Show the ingestion log, newest first",
	RunE:  runHistoryIngestions,
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyIngestionsCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryShow(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	messages, err := sessionService.History(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(messages) == 0 {
		cmd.Println("No chat history.")
		return nil
	}

	for _, msg := range messages {
		label := "you"
		if msg.Role == domain.RoleAssistant {
			label = "quarry"
		}
		cmd.Printf("[%s] %s> %s\n", msg.CreatedAt.Local().Format("2006-01-02 15:04"), label, msg.Content)
	}

	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	if err := sessionService.Clear(context.Background()); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	cmd.Println("Chat history cleared.")
	return nil
}

func runHistoryIngestions(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	records, err := sessionService.Ingestions(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load ingestion log: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No ingestions yet.")
		return nil
	}

	for _, rec := range records {
		cmd.Printf("[%s] %s (%s)\n", rec.CreatedAt.Local().Format("2006-01-02 15:04"), rec.URL, rec.Mode)
		cmd.Printf("    %d documents, %d chunks stored\n", rec.DocumentsFetched, rec.ChunksStored)
		if rec.Summary != "" {
			cmd.Printf("    %s\n", rec.Summary)
		}
	}

	return nil
}
