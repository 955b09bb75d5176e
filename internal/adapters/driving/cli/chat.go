package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question session",
	Long: `Starts an interactive session. Each question is answered against
the ingested content and both sides of the conversation are saved
to the local history.

Type "exit" or "quit" (or press Ctrl-D) to leave.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	ctx := context.Background()
	promptLabel := color.New(color.FgGreen, color.Bold).SprintFunc()
	answerLabel := color.New(color.FgCyan, color.Bold).SprintFunc()

	cmd.Println("Quarry chat. Type \"exit\" to leave.")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())
	for {
		cmd.Printf("%s ", promptLabel("you>"))
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				cmd.Println()
				return nil
			}
			return err
		}

		question := strings.TrimSpace(line)
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			return nil
		}

		answer, err := queryService.Answer(ctx, question)
		if err != nil {
			cmd.Printf("error: %v\n", err)
			continue
		}

		cmd.Printf("%s %s\n\n", answerLabel("quarry>"), answer.Text)

		saveTurn(ctx, question, answer.Text)
	}
}

// saveTurn appends both sides of one exchange to the chat history.
// History failures never interrupt the session.
func saveTurn(ctx context.Context, question, answer string) {
	if sessionService == nil {
		return
	}
	if err := sessionService.Append(ctx, domain.RoleUser, question); err != nil {
		logger.Warn("failed to save question: %v", err)
		return
	}
	if err := sessionService.Append(ctx, domain.RoleAssistant, answer); err != nil {
		logger.Warn("failed to save answer: %v", err)
	}
}
