package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// tokenEnvVars are checked in order before any Copilot config file.
var tokenEnvVars = []string{"TUNEWEEK_GITHUB_TOKEN", "GITHUB_TOKEN"}

// ErrTokenNotFound is returned when no GitHub token is available.
var ErrTokenNotFound = errors.New("GitHub token not found: set GITHUB_TOKEN or authenticate with GitHub Copilot in your IDE")

// LoadGitHubToken loads the GitHub OAuth token from the environment or from
// the Copilot hosts.json / apps.json files in the user config directory.
func LoadGitHubToken() (string, error) {
	for _, env := range tokenEnvVars {
		if token := os.Getenv(env); token != "" {
			return token, nil
		}
	}

	configDir, err := configDir()
	if err != nil {
		return "", fmt.Errorf("getting config directory: %w", err)
	}

	for _, name := range []string{"hosts.json", "apps.json"} {
		token, err := loadTokenFromFile(filepath.Join(configDir, "github-copilot", name))
		if err == nil && token != "" {
			return token, nil
		}
	}

	return "", ErrTokenNotFound
}

func configDir() (string, error) {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if runtime.GOOS == "windows" {
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return localAppData, nil
		}
		return filepath.Join(home, "AppData", "Local"), nil
	}

	return filepath.Join(home, ".config"), nil
}

// loadTokenFromFile extracts the oauth_token of the github.com entry.
func loadTokenFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var hosts map[string]map[string]any
	if err := json.Unmarshal(data, &hosts); err != nil {
		return "", err
	}

	for host, value := range hosts {
		if !strings.Contains(host, "github.com") {
			continue
		}
		if token, ok := value["oauth_token"].(string); ok {
			return token, nil
		}
	}

	return "", fmt.Errorf("oauth_token not found in %s", path)
}
