// Package theme provides color themes for the TUI.
package theme

import (
	"embed"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// DefaultName is used when no theme is configured.
const DefaultName = "mocha"

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Header row, chips
	BgSelection string `toml:"bg_selection"` // Selected suggestion
	Fg          string `toml:"fg"`           // Primary foreground
	FgMuted     string `toml:"fg_muted"`     // Help, totals, hints
	Accent      string `toml:"accent"`       // Title and borders
	Today       string `toml:"today"`        // Today's column
	Gap         string `toml:"gap"`          // Days with no value yet
	Warning     string `toml:"warning"`      // Errors, unavailable data

	// Panel palette (summary and chat). Falls back to the base colors.
	PanelBg     string `toml:"panel_bg"`
	PanelBorder string `toml:"panel_border"`
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Load loads a theme by name from embedded files.
// Unknown names fall back to mocha.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = DefaultName
	}
	name = strings.ToLower(name)

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		if name != DefaultName {
			return Load(DefaultName)
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()

	return &t, nil
}

func (t *Theme) applyDefaults() {
	if t.PanelBg == "" {
		t.PanelBg = coalesce(t.BgHighlight, t.Bg)
	}
	if t.PanelBorder == "" {
		t.PanelBorder = t.Accent
	}
	if t.Gap == "" {
		t.Gap = t.FgMuted
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns the names of the bundled themes.
func Available() []string {
	return []string{"mocha", "macchiato", "frappe", "latte"}
}

// IsAvailable reports whether a theme name is bundled.
func IsAvailable(name string) bool {
	return slices.Contains(Available(), strings.ToLower(name))
}
