package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the data folder, AI providers, index backend and
assistant options. Values are stored in config.toml in the configuration
directory; environment variables such as GROQ_API_KEY override them.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Change one setting",
	Long: `Change one setting. Run 'noticeagent settings show' for the key list.
API keys are read from the terminal without echo when the value is omitted.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider",
	Args:  cobra.NoArgs,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the completion provider",
	Args:  cobra.NoArgs,
	RunE:  runSettingsLLM,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the configured providers respond",
	Args:  cobra.NoArgs,
	RunE:  runSettingsCheck,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if _, err := settingsService.Get(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Invalid values are shown with their defaults.")
		cmd.Println()
	}

	section := ""
	for _, e := range settingsService.Entries() {
		prefix, _, _ := strings.Cut(e.Key, ".")
		if prefix != section {
			if section != "" {
				cmd.Println()
			}
			cmd.Printf("[%s]\n", prefix)
			section = prefix
		}
		value := e.Value
		if value == "" {
			value = "(not set)"
		}
		cmd.Printf("  %-24s %-32s %s\n", e.Key, value, e.Description)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	var value string
	if len(args) == 2 {
		value = args[1]
	} else {
		if !strings.HasSuffix(key, ".api_key") {
			return fmt.Errorf("a value is required for %s", key)
		}
		cmd.Printf("Enter %s: ", key)
		value = readSecret(bufio.NewReader(cmd.InOrStdin()))
		cmd.Println()
	}

	if err := settingsService.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("Set %s.\n", key)
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureProvider(cmd, bufio.NewReader(cmd.InOrStdin()), providerFlow{
		title:     "Select Embedding Provider",
		prefix:    "embedding",
		providers: domain.AllEmbeddingProviders(),
		models:    domain.DefaultEmbeddingModels(),
		validate:  settingsService.ValidateEmbeddingConfig,
	})
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureProvider(cmd, bufio.NewReader(cmd.InOrStdin()), providerFlow{
		title:     "Select Completion Provider",
		prefix:    "llm",
		providers: domain.AllLLMProviders(),
		models:    domain.DefaultLLMModels(),
		validate:  settingsService.ValidateLLMConfig,
	})
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var failed bool
	cmd.Print("Embedding provider... ")
	if err := settingsService.ValidateEmbeddingConfig(cmd.Context()); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		failed = true
	} else {
		cmd.Println("OK")
	}

	cmd.Print("Completion provider... ")
	if err := settingsService.ValidateLLMConfig(cmd.Context()); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		failed = true
	} else {
		cmd.Println("OK")
	}

	if failed {
		return errors.New("provider check failed")
	}
	return nil
}

// providerFlow describes an interactive provider selection.
type providerFlow struct {
	title     string
	prefix    string
	providers []domain.AIProvider
	models    map[domain.AIProvider]string
	validate  func(ctx context.Context) error
}

func configureProvider(cmd *cobra.Command, reader *bufio.Reader, flow providerFlow) error {
	cmd.Println(flow.title)
	for i, p := range flow.providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	selected := flow.providers[parseChoice(readLine(reader), len(flow.providers), 1)-1]

	defaultModel := flow.models[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	baseURL := selected.DefaultBaseURL()
	if selected.IsLocal() {
		cmd.Printf("Enter base URL [%s]: ", baseURL)
		if v := readLine(reader); v != "" {
			baseURL = v
		}
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Printf("Enter API key (blank to use %s): ", selected.APIKeyEnv())
		apiKey = readSecret(reader)
		cmd.Println()
	}

	values := [][2]string{
		{flow.prefix + ".provider", selected.String()},
		{flow.prefix + ".model", model},
		{flow.prefix + ".base_url", baseURL},
	}
	if apiKey != "" {
		values = append(values, [2]string{flow.prefix + ".api_key", apiKey})
	}
	if flow.prefix == "embedding" {
		if dims, ok := domain.EmbeddingDimensions()[model]; ok {
			values = append(values, [2]string{"embedding.dimensions", strconv.Itoa(dims)})
		}
	}
	for _, kv := range values {
		if err := settingsService.Set(kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to configure %s: %w", flow.prefix, err)
		}
	}

	cmd.Print("Validating configuration... ")
	if err := flow.validate(cmd.Context()); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("%s configuration validation failed: %w", flow.prefix, err)
	}
	cmd.Println("OK")

	cmd.Printf("Configured %s (%s).\n", selected.DisplayName(), model)
	if flow.prefix == "embedding" {
		cmd.Println("Run 'noticeagent sync' to rebuild the index with the new embeddings.")
	}
	return nil
}

func readLine(reader *bufio.Reader) string {
	input, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readSecret reads without echo from a terminal, falling back to reader.
func readSecret(reader *bufio.Reader) string {
	fd := int(os.Stdin.Fd())
	if isTerminal(fd) {
		if secret, err := term.ReadPassword(fd); err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	return readLine(reader)
}
