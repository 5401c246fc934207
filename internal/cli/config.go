package cli

import (
	"errors"

	"curator-cli/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change ~/.curator/config.json",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored configuration (session masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": configView(path, cfg)})
		},
	}
	return cmd
}

func newConfigSetCmd(app *App) *cobra.Command {
	var server, session, formatVal string
	var tuiTheme, tuiGlyphs, tuiMarkdown string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store connection settings and TUI preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}

			keys := map[string]string{
				"server":       server,
				"session":      session,
				"format":       formatVal,
				"tui.theme":    tuiTheme,
				"tui.glyphs":   tuiGlyphs,
				"tui.markdown": tuiMarkdown,
			}
			flagFor := map[string]string{
				"server":       "server",
				"session":      "session",
				"format":       "format-default",
				"tui.theme":    "tui-theme",
				"tui.glyphs":   "tui-glyphs",
				"tui.markdown": "tui-markdown",
			}
			changed := false
			for key, value := range keys {
				if !cmd.Flags().Changed(flagFor[key]) {
					continue
				}
				if err := cfg.Set(key, value); err != nil {
					return writeErr(cmd, err)
				}
				changed = true
			}
			if !changed {
				return writeErr(cmd, errors.New("nothing to set (pass at least one flag)"))
			}

			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": configView(path, cfg)})
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL")
	cmd.Flags().StringVar(&session, "session", "", "Admin session cookie value")
	cmd.Flags().StringVar(&formatVal, "format-default", "", "Default output format (json|table)")
	cmd.Flags().StringVar(&tuiTheme, "tui-theme", "", "TUI theme (light|dark|auto)")
	cmd.Flags().StringVar(&tuiGlyphs, "tui-glyphs", "", "TUI glyph set (unicode|ascii)")
	cmd.Flags().StringVar(&tuiMarkdown, "tui-markdown", "", "TUI markdown style (dark|light|notty|auto)")
	return cmd
}

// configView is what show/set print: the stored values with the session
// reduced to its tail so a terminal scrollback never leaks it.
func configView(path string, cfg *store.Config) map[string]any {
	return map[string]any{
		"path":    path,
		"server":  cfg.Server,
		"session": maskSecret(cfg.Session),
		"format":  cfg.Format,
		"tui":     cfg.TUIPrefs(),
	}
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
