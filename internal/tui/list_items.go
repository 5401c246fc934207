package tui

import (
	"fmt"
	"strings"

	"curator-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

func newList(items []list.Item) list.Model {
	l := list.New(items, newPostRowDelegate(), 0, 0)
	// We render our own header + footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	// Server-side search via `/`; the list's fuzzy filter would only see the
	// current page.
	l.SetFilteringEnabled(false)
	// Bubble list defaults to quitting on ESC; here ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("q")
	// Emacs-style navigation aliases (common muscle memory).
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}

// postItem is one row of the posts list.
type postItem struct {
	post model.Post
	// pending is true while a status confirmation for this post is in flight.
	pending bool
}

func (i postItem) FilterValue() string { return i.post.Title }

func (i postItem) Title() string {
	st := i.post.Status
	dot := lipgloss.NewStyle().Foreground(statusColor(st)).Render(glyphStatus(st))
	if i.pending {
		dot = styleMuted().Render(glyphPending())
	}

	title := strings.TrimSpace(i.post.Title)
	if title == "" {
		title = "(untitled)"
	}

	path := taxonomyPath(i.post)
	date := ""
	if !i.post.CreatedAt.IsZero() {
		date = i.post.CreatedAt.Format("2006-01-02")
	}

	meta := make([]string, 0, 2)
	if path != "" {
		meta = append(meta, path)
	}
	if date != "" {
		meta = append(meta, date)
	}
	line := fmt.Sprintf("%s %s", dot, title)
	if len(meta) > 0 {
		line += "  " + styleMuted().Render(strings.Join(meta, "  "))
	}
	return line
}

func statusColor(s model.Status) lipgloss.AdaptiveColor {
	switch s {
	case model.StatusPublic:
		return colorStatusPublicFg
	case model.StatusPrivate:
		return colorStatusPrivateFg
	default:
		return colorStatusDraftFg
	}
}

// taxonomyPath renders the decorated names of a post's hierarchy, falling
// back the way the admin table does: a post with no category shows
// "(uncategorized)", missing lower levels show nothing.
func taxonomyPath(p model.Post) string {
	cat := strings.TrimSpace(p.CategoryName)
	if cat == "" {
		if p.CategoryID == nil {
			return "(uncategorized)"
		}
		cat = "-"
	}
	parts := []string{cat}
	if t := strings.TrimSpace(p.TopicName); t != "" {
		parts = append(parts, t)
	}
	if g := strings.TrimSpace(p.GroupName); g != "" {
		parts = append(parts, g)
	}
	return strings.Join(parts, " "+glyphArrow()+" ")
}
