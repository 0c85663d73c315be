package chart

import (
	"regexp"
	"testing"
)

var hexColor = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestColorFor_FixedPalette(t *testing.T) {
	if PaletteSize() < 10 {
		t.Fatalf("palette has %d colors, want at least 10", PaletteSize())
	}
	if ColorFor(0) != "#4fb07a" {
		t.Errorf("ColorFor(0) = %s, want #4fb07a", ColorFor(0))
	}
	seen := make(map[string]int)
	for i := 0; i < PaletteSize(); i++ {
		c := ColorFor(i)
		if prev, ok := seen[c]; ok {
			t.Errorf("ColorFor(%d) = %s duplicates ColorFor(%d)", i, c, prev)
		}
		seen[c] = i
	}
}

func TestColorFor_GeneratedIsDeterministic(t *testing.T) {
	for i := PaletteSize(); i < PaletteSize()+25; i++ {
		first := ColorFor(i)
		if !hexColor.MatchString(first) {
			t.Errorf("ColorFor(%d) = %q, not a hex color", i, first)
		}
		for run := 0; run < 3; run++ {
			if got := ColorFor(i); got != first {
				t.Fatalf("ColorFor(%d) changed between calls: %s then %s", i, first, got)
			}
		}
	}
	if ColorFor(PaletteSize()) == ColorFor(PaletteSize()+1) {
		t.Error("consecutive generated colors should differ")
	}
}

func TestColorFor_NegativeIndex(t *testing.T) {
	if ColorFor(-3) != ColorFor(0) {
		t.Errorf("ColorFor(-3) = %s, want %s", ColorFor(-3), ColorFor(0))
	}
}
