package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// postRowDelegate renders one post per line, padded to the list width so the
// selection background covers the whole row.
type postRowDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	pending  lipgloss.Style
}

func newPostRowDelegate() postRowDelegate {
	return postRowDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		pending: lipgloss.NewStyle().Faint(true),
	}
}

func (d postRowDelegate) Height() int  { return 1 }
func (d postRowDelegate) Spacing() int { return 0 }
func (d postRowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d postRowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}

	row, ok := item.(postItem)
	if !ok {
		fmt.Fprint(w, fmt.Sprint(item))
		return
	}

	style := d.normal
	switch {
	case index == m.Index():
		style = d.selected
	case row.pending:
		// Waiting for a status confirmation; the row reads as tentative.
		style = d.pending
	}

	line := row.Title()
	if lineW := xansi.StringWidth(line); lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}
	fmt.Fprint(w, style.Render(line))
}
