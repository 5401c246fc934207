package tui

import (
	"testing"

	"curator-cli/internal/model"
)

func TestGlyphs_EnvWinsOverConfig(t *testing.T) {
	t.Setenv("CURATOR_TUI_GLYPHS", "ascii")
	applyGlyphPreference("unicode")
	if got := glyphs(); got != glyphSetASCII {
		t.Fatalf("expected the env to win, got %v", got)
	}

	t.Setenv("CURATOR_TUI_GLYPHS", "")
	applyGlyphPreference("ascii")
	if got := glyphs(); got != glyphSetASCII {
		t.Fatalf("expected the config value to apply, got %v", got)
	}

	// Unknown values keep the current set.
	applyGlyphPreference("bogus")
	if got := glyphs(); got != glyphSetASCII {
		t.Fatalf("expected unknown values to be ignored, got %v", got)
	}

	applyGlyphPreference("unicode")
	if got := glyphs(); got != glyphSetUnicode {
		t.Fatalf("expected unicode glyphs, got %v", got)
	}
}

func TestGlyphStatus_OneMarkerPerStatus(t *testing.T) {
	setGlyphs(glyphSetASCII)
	defer setGlyphs(glyphSetUnicode)

	seen := map[string]bool{}
	for _, s := range []string{
		glyphStatus(model.StatusPublic),
		glyphStatus(model.StatusPrivate),
		glyphStatus(model.StatusDraft),
	} {
		if seen[s] {
			t.Fatalf("expected distinct markers per status, %q repeats", s)
		}
		seen[s] = true
	}
}
