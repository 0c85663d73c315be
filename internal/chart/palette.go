package chart

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// palette holds the fixed series colors, assigned by series position.
var palette = []string{
	"#4fb07a",
	"#4f7ab0",
	"#e0a030",
	"#d9534f",
	"#9b59b6",
	"#1abc9c",
	"#e67e22",
	"#7f8c8d",
	"#f06292",
	"#c0ca33",
}

// goldenAngle spreads generated hues so neighbours stay distinguishable.
const goldenAngle = 137.50776405003785

// PaletteSize is the number of fixed colors before generated ones kick in.
func PaletteSize() int {
	return len(palette)
}

// ColorFor returns the hex color for series position i. Positions past the
// fixed palette get a color derived from the index alone, so the same
// position always maps to the same color.
func ColorFor(i int) string {
	if i < 0 {
		i = 0
	}
	if i < len(palette) {
		return palette[i]
	}
	n := i - len(palette)
	hue := math.Mod(float64(n+1)*goldenAngle, 360)
	lightness := 0.45 + 0.1*float64(n%3)
	return colorful.Hsl(hue, 0.55, lightness).Clamped().Hex()
}
