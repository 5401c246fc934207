package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"curator-cli/internal/api"
	"curator-cli/internal/format"
	"curator-cli/internal/store"
	"curator-cli/internal/tui"

	"github.com/spf13/cobra"
)

const defaultServer = "http://127.0.0.1:8000"

type App struct {
	Server     string
	Session    string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "curator",
		Short:        "Admin client (CLI + TUI) for the blog CMS",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  curator

  # Scriptable commands
  curator posts list --status public

  # Direct post lookup (shortcut for: curator posts show --id <id>)
  curator 5
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// The stored default format also covers commands that never build a
		// client (history, config). Failures surface later where they matter.
		if app.Format == "" {
			if cfg, err := store.LoadConfig(); err == nil {
				app.Format = cfg.Format
			}
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("CURATOR_SERVER", ""), "Server base URL (default: config file, then "+defaultServer+")")
	cmd.PersistentFlags().StringVar(&app.Session, "session", envOr("CURATOR_SESSION", ""), "Admin session cookie value (default: config file)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("CURATOR_FORMAT", ""), "Output format (json|table)")

	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newTopicsCmd(app))
	cmd.AddCommand(newGroupsCmd(app))
	cmd.AddCommand(newPostsCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	client, cfg, err := newClient(app)
	if err != nil {
		return err
	}
	return tui.Run(client, store.Journal{}, cfg.TUIPrefs())
}

// newClient resolves connection settings: flag/env first, then the config
// file, then defaults.
func newClient(app *App) (*api.Client, *store.Config, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	server := app.Server
	if server == "" {
		server = cfg.Server
	}
	if server == "" {
		server = defaultServer
	}
	if app.Session == "" {
		app.Session = cfg.Session
	}
	return api.New(server, app.Session), cfg, nil
}

// journalRecord mirrors the TUI's best-effort history write for scripted
// mutations. A broken journal never fails the command.
func journalRecord(ctx context.Context, client *api.Client, op, kind string, entityID int64, detail any, opErr error) {
	_ = store.Journal{}.Record(ctx, client.BaseURL, op, kind, entityID, detail, opErr)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	// Table output drops the JSON envelope (and with it the _hints, which
	// are a json affordance) and renders the payload itself.
	if app.Format == "table" {
		if m, ok := v.(map[string]any); ok {
			if d, ok := m["data"]; ok {
				v = d
			}
		}
	}
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
