package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Providers whose API keys can be stored via `settings set-key`.
var keyProviders = []string{"groq", "openai", "firecrawl"}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure providers, the vector index, and chunking options.

Settings are stored in the config file; environment variables override
them at startup.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value by key, for example:

  quarry settings set embedding.provider ollama
  quarry settings set embedding.model nomic-embed-text
  quarry settings set vector.index quarry`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check connectivity to the configured backends",
	Long: `Ping each configured backend and report whether it is reachable.

Useful after changing providers or keys to confirm the pipeline will work
before running an ingest.`,
	RunE: runSettingsCheck,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key [provider]",
	Short: "Store an API key for a provider",
	Long: `Store an API key for one of: groq, openai, firecrawl.

The key is read without echo and saved to the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsSetKey,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	settingsCmd.AddCommand(settingsSetKeyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider:  %s\n", orDefault(configStore.GetString("embedding.provider"), "ollama"))
	cmd.Printf("  Model:     %s\n", orDefault(configStore.GetString("embedding.model"), "(provider default)"))
	cmd.Printf("  Dimension: %d\n", configStore.GetInt("embedding.dimension"))
	cmd.Println()

	cmd.Println("[Generation]")
	cmd.Printf("  Provider: %s\n", orDefault(configStore.GetString("generation.provider"), "groq"))
	cmd.Printf("  Model:    %s\n", orDefault(configStore.GetString("generation.model"), "(provider default)"))
	cmd.Println()

	cmd.Println("[Vector Index]")
	cmd.Printf("  Address:   %s\n", orDefault(configStore.GetString("vector.addr"), "localhost:6334"))
	cmd.Printf("  Index:     %s\n", orDefault(configStore.GetString("vector.index"), "quarry"))
	cmd.Printf("  Namespace: %s\n", configStore.GetString("vector.namespace"))
	cmd.Println()

	cmd.Println("[API Keys]")
	for _, provider := range keyProviders {
		key := configStore.GetString(provider + ".api_key")
		if key == "" {
			cmd.Printf("  %-10s (not set)\n", provider+":")
		} else {
			cmd.Printf("  %-10s %s\n", provider+":", maskAPIKey(key))
		}
	}
	cmd.Println()

	cmd.Printf("Config file: %s\n", configStore.Path())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, value := args[0], args[1]
	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s.\n", key)
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if len(healthChecks) == 0 {
		return errors.New("no backend services configured")
	}

	failed := 0
	for _, check := range healthChecks {
		if err := check.Check(cmd.Context()); err != nil {
			cmd.Printf("  %-24s FAIL: %v\n", check.Name, err)
			failed++
			continue
		}
		cmd.Printf("  %-24s OK\n", check.Name)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d backends unreachable", failed, len(healthChecks))
	}
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	provider := strings.ToLower(args[0])
	if !isKeyProvider(provider) {
		return fmt.Errorf("unknown provider %q: use one of %s", provider, strings.Join(keyProviders, ", "))
	}

	cmd.Printf("Enter %s API key: ", provider)
	apiKey := readPassword()
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key must not be empty")
	}

	if err := configStore.Set(provider+".api_key", apiKey); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}

	cmd.Printf("API key for %s saved.\n", provider)
	return nil
}

// Helper functions.

func isKeyProvider(name string) bool {
	for _, p := range keyProviders {
		if p == name {
			return true
		}
	}
	return false
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
