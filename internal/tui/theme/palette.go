package theme

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Today       lipgloss.Color
	Gap         lipgloss.Color
	Warning     lipgloss.Color

	PanelBg     lipgloss.Color
	PanelBorder lipgloss.Color

	TextOnAccent  lipgloss.Color
	TextOnToday   lipgloss.Color
	TextOnWarning lipgloss.Color

	// Light reports whether the theme has a light background.
	Light bool

	bg string
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(DefaultName)
	}

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Today:       lipgloss.Color(t.Today),
		Gap:         lipgloss.Color(t.Gap),
		Warning:     lipgloss.Color(t.Warning),

		PanelBg:     lipgloss.Color(coalesce(t.PanelBg, t.BgHighlight, t.Bg)),
		PanelBorder: lipgloss.Color(coalesce(t.PanelBorder, t.Accent)),

		TextOnAccent:  lipgloss.Color(chooseTextColor(t.Accent, t.Bg, t.Fg)),
		TextOnToday:   lipgloss.Color(chooseTextColor(t.Today, t.Bg, t.Fg)),
		TextOnWarning: lipgloss.Color(chooseTextColor(t.Warning, t.Bg, t.Fg)),

		Light: isLightTheme(t.Bg),
		bg:    t.Bg,
	}
}

// SeriesBar returns the bar color for a series, nudged so it keeps
// contrast against the background.
func (p *Palette) SeriesBar(hex string) lipgloss.Color {
	if p.Light {
		return lipgloss.Color(blendColors(hex, "#000000", 0.15))
	}
	return lipgloss.Color(hex)
}

// SeriesTrack returns the faint color drawn behind a bar.
func (p *Palette) SeriesTrack(hex string) lipgloss.Color {
	if p.Light {
		return lipgloss.Color(blendColors(hex, p.bg, 0.80))
	}
	return lipgloss.Color(blendColors(hex, p.bg, 0.75))
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

func chooseTextColor(bg, lightText, darkText string) string {
	if contrastRatio(bg, lightText) >= contrastRatio(bg, darkText) {
		return lightText
	}
	return darkText
}

func contrastRatio(a, b string) float64 {
	l1 := relativeLuminance(a)
	l2 := relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func relativeLuminance(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// blendColors mixes a towards b in Lab space. Invalid input returns a.
func blendColors(a, b string, ratio float64) string {
	ca, err := colorful.Hex(a)
	if err != nil {
		return a
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return a
	}
	ratio = math.Max(0, math.Min(1, ratio))
	return ca.BlendLab(cb, ratio).Clamped().Hex()
}
