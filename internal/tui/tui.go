package tui

import (
	"curator-cli/internal/api"
	"curator-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive client and blocks until it exits. The previous
// session's screen is restored on entry and written back on exit; a state
// file that cannot be read or written never blocks the session.
func Run(client *api.Client, journal store.Journal, prefs store.TUIConfig) error {
	applyColorProfilePreference()
	applyThemePreference(prefs.Theme)
	applyGlyphPreference(prefs.Glyphs)
	applyMarkdownPreference(prefs.Markdown)

	st, err := store.LoadTUIState()
	if err != nil {
		st = nil
	}

	p := tea.NewProgram(newAppModel(client, journal, st), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(appModel); ok {
		_ = store.SaveTUIState(m.snapshotState())
	}
	return nil
}
