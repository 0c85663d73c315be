package ui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tuneweek/internal/config"
	"github.com/javiermolinar/tuneweek/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  tuneweek config`,
		// The config command repairs invalid configs, so it skips the
		// validation every other command runs first.
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive()
		},
	}
}

func runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(cfg)

	// Ask if user wants to edit
	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	// Interactive editing
	reader := bufio.NewReader(os.Stdin)

	cfg.User.ID = promptValue(reader, "User id", cfg.User.ID)
	cfg.User.Timezone = promptTimezone(reader, cfg.User.Timezone)
	cfg.LLM.Provider = promptValue(reader, "LLM provider (copilot, ollama, lmstudio; empty to disable)", cfg.LLM.Provider)
	cfg.LLM.Model = promptValue(reader, "LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = promptValue(reader, "LLM base URL (Ollama/LM Studio)", cfg.LLM.BaseURL)
	cfg.Storage.DBPath = promptValue(reader, "Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = promptTheme(reader, cfg.UI.Theme)
	cfg.UI.DebounceMs = promptInt(reader, "Navigation debounce (ms)", cfg.UI.DebounceMs)
	cfg.Cache.Size = promptInt(reader, "Cached weeks", cfg.Cache.Size)
	cfg.Server.Addr = promptValue(reader, "API listen address", cfg.Server.Addr)
	cfg.Server.AllowedOrigins = promptSlice(reader, "API allowed origins (comma-separated)", cfg.Server.AllowedOrigins)
	cfg.Events.Brokers = promptSlice(reader, "Kafka brokers (comma-separated, empty to disable)", cfg.Events.Brokers)
	if len(cfg.Events.Brokers) > 0 {
		cfg.Events.Topic = promptValue(reader, "Kafka topic", cfg.Events.Topic)
	}
	cfg.Log.Level = promptValue(reader, "Log level (debug, info, warn, error)", cfg.Log.Level)
	cfg.Log.File = promptValue(reader, "Log file (empty for stderr)", cfg.Log.File)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

func printConfig(cfg *config.Config) {
	fmt.Println("Current configuration:")
	fmt.Println("──────────────────────")
	fmt.Println("[user]")
	fmt.Printf("  id               = %s\n", cfg.User.ID)
	fmt.Printf("  timezone         = %s\n", cfg.User.Timezone)
	fmt.Println("\n[llm]")
	fmt.Printf("  provider         = %s\n", cfg.LLM.Provider)
	fmt.Printf("  model            = %s\n", cfg.LLM.Model)
	fmt.Printf("  base_url         = %s\n", cfg.LLM.BaseURL)
	fmt.Println("\n[storage]")
	fmt.Printf("  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Println("\n[ui]")
	fmt.Printf("  theme            = %s\n", cfg.UI.Theme)
	fmt.Printf("  debounce_ms      = %d\n", cfg.UI.DebounceMs)
	fmt.Println("\n[cache]")
	fmt.Printf("  size             = %d\n", cfg.Cache.Size)
	fmt.Println("\n[server]")
	fmt.Printf("  addr             = %s\n", cfg.Server.Addr)
	fmt.Printf("  allowed_origins  = %s\n", strings.Join(cfg.Server.AllowedOrigins, ", "))
	if len(cfg.Events.Brokers) > 0 {
		fmt.Println("\n[events]")
		fmt.Printf("  brokers          = %s\n", strings.Join(cfg.Events.Brokers, ", "))
		fmt.Printf("  topic            = %s\n", cfg.Events.Topic)
	}
	fmt.Println("\n[log]")
	fmt.Printf("  level            = %s\n", cfg.Log.Level)
	fmt.Printf("  file             = %s\n", cfg.Log.File)
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptSlice(reader *bufio.Reader, label string, current []string) []string {
	currentStr := strings.Join(current, ", ")
	fmt.Printf("  %s [%s]: ", label, currentStr)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func promptTheme(reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Printf("  Invalid theme %q. Available: %s\n", value, options)
	}
}

func promptInt(reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil && n >= 0 {
			return n
		}
		fmt.Printf("  Invalid number %q\n", value)
	}
}

func promptTimezone(reader *bufio.Reader, current string) string {
	for {
		value := promptValue(reader, "Time zone (IANA name, e.g. Europe/Madrid)", current)
		if _, err := time.LoadLocation(value); err == nil {
			return value
		}
		fmt.Printf("  Unknown time zone %q\n", value)
	}
}
