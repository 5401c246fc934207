package tui

import (
	"os"
	"strings"
	"sync"

	"curator-cli/internal/model"
)

// Terminal apps can't change the user's actual font. Instead, we can choose
// between Unicode and ASCII glyph sets for UI affordances (status dots,
// markers, separators). This helps on terminals/fonts that don't render some
// glyphs cleanly.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference picks the glyph set. CURATOR_TUI_GLYPHS wins over the
// config file's tui.glyphs.
func applyGlyphPreference(configGlyphs string) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("CURATOR_TUI_GLYPHS")))
	if v == "" {
		v = strings.ToLower(strings.TrimSpace(configGlyphs))
	}
	switch v {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	default:
		// Unknown value: ignore.
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func glyphBullet() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "•"
}

func glyphArrow() string {
	if glyphs() == glyphSetASCII {
		return "->"
	}
	return "→"
}

func glyphEdit() string {
	if glyphs() == glyphSetASCII {
		return "~"
	}
	return "✎"
}

func glyphPending() string {
	if glyphs() == glyphSetASCII {
		return "..."
	}
	return "…"
}

// glyphStatus renders a post's publish state as a one-cell marker:
// public filled, private hollow, draft dotted.
func glyphStatus(s model.Status) string {
	if glyphs() == glyphSetASCII {
		switch s {
		case model.StatusPublic:
			return "*"
		case model.StatusPrivate:
			return "o"
		default:
			return "."
		}
	}
	switch s {
	case model.StatusPublic:
		return "●"
	case model.StatusPrivate:
		return "○"
	default:
		return "◌"
	}
}
