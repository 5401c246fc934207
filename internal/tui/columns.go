package tui

import (
	"errors"
	"strings"

	"curator-cli/internal/api"
	"curator-cli/internal/model"
	"curator-cli/internal/rowedit"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// The taxonomy browser is three panes side by side: categories, topics of the
// selected category, groups of the selected topic. One shared textinput serves
// whichever editing row the cursor sits on; rows edited elsewhere keep their
// drafts in rowedit.Row until the cursor returns.

// stashActiveEdit writes the live input value back into the row it was
// editing and releases the input.
func (m *appModel) stashActiveEdit() {
	if !m.hasActiveEdit {
		return
	}
	if r := rowedit.ByID(*m.rowsFor(m.activeEditCol), m.activeEditID); r != nil && r.Phase() == rowedit.Editing {
		r.SetDraft(m.rowInput.Value())
	}
	m.hasActiveEdit = false
	m.rowInput.Blur()
}

// syncRowInput points the shared input at the editing row under the cursor,
// or parks it when the cursor is elsewhere.
func (m *appModel) syncRowInput() {
	row := m.focusedRow()
	if row == nil || row.Phase() != rowedit.Editing {
		m.stashActiveEdit()
		return
	}
	if m.hasActiveEdit && m.activeEditCol == m.focusedCol && m.activeEditID == row.ID {
		return
	}
	m.stashActiveEdit()
	m.rowInput.SetValue(row.Draft())
	m.rowInput.CursorEnd()
	m.rowInput.Focus()
	m.hasActiveEdit = true
	m.activeEditCol = m.focusedCol
	m.activeEditID = row.ID
}

func (m appModel) updateTaxonomy(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// When the cursor sits on an editing row, most keys belong to the input.
	if row := m.focusedRow(); row != nil && row.Phase() == rowedit.Editing {
		switch key {
		case "esc", "ctrl+g":
			row.CancelEdit()
			m.syncRowInput()
			return m, nil
		case "enter":
			if m.hasActiveEdit && m.activeEditCol == m.focusedCol && m.activeEditID == row.ID {
				row.SetDraft(m.rowInput.Value())
			}
			name, err := row.BeginSave()
			switch {
			case err == nil:
				return m, m.renameRowCmd(m.focusedCol, row.ID, name)
			case errors.Is(err, rowedit.ErrEmptyName):
				m.showMinibufferError("name is required")
			}
			// ErrInFlight: the earlier save is still out, drop the key.
			return m, nil
		case "up", "ctrl+p":
			m.moveCursor(-1)
			return m, nil
		case "down", "ctrl+n":
			m.moveCursor(1)
			return m, nil
		}
		if m.hasActiveEdit {
			var cmd tea.Cmd
			m.rowInput, cmd = m.rowInput.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "j", "down", "ctrl+n":
		m.moveCursor(1)
	case "k", "up", "ctrl+p":
		m.moveCursor(-1)
	case "h", "left":
		m.moveFocus(-1)
	case "l", "right":
		m.moveFocus(1)
	case "tab":
		m.view = viewPosts
		if m.posts.loadSeq == 0 {
			return m, m.loadPostsCmd()
		}
	case "enter":
		return m.selectUnderCursor()
	case "e":
		if row := m.focusedRow(); row != nil && !row.Pending() {
			row.BeginEdit()
			m.syncRowInput()
		}
	case "n":
		m.openNewRowModal()
	case "d":
		m.openDeleteRowModal()
	case "r":
		return m, m.loadTaxonomyCmd()
	case "esc":
		// Walk the selection back up one level.
		if t, ok := m.sel.Topic(); ok {
			m.sel.DropTopic(t.ID)
			m.clearGroups()
			m.focusedCol = columnTopics
		} else if cat, ok := m.sel.Category(); ok {
			m.sel.DropCategory(cat.ID)
			m.topics = nil
			m.topicRows = nil
			m.topicIdx = 0
			m.clearGroups()
			m.focusedCol = columnCategories
		}
	}
	return m, nil
}

func (m *appModel) moveCursor(delta int) {
	n := len(*m.focusedRows())
	if n == 0 {
		return
	}
	idx := m.focusedIdx()
	*idx = clampIdx(*idx+delta, n)
	m.syncRowInput()
}

func (m *appModel) moveFocus(delta int) {
	col := int(m.focusedCol) + delta
	if col < int(columnCategories) {
		col = int(columnCategories)
	}
	if col > int(columnGroups) {
		col = int(columnGroups)
	}
	m.focusedCol = columnKind(col)
	m.syncRowInput()
}

func (m appModel) selectUnderCursor() (tea.Model, tea.Cmd) {
	row := m.focusedRow()
	if row == nil {
		return m, nil
	}
	switch m.focusedCol {
	case columnCategories:
		cmd := m.selectCategory(model.Category{ID: row.ID, Name: row.Name})
		m.focusedCol = columnTopics
		m.syncRowInput()
		return m, cmd
	case columnTopics:
		t, ok := topicByID(m.topics, row.ID)
		if !ok {
			return m, nil
		}
		cmd := m.selectTopic(t)
		m.focusedCol = columnGroups
		m.syncRowInput()
		return m, cmd
	default:
		// Groups are the leaf level: enter opens the post table scoped to
		// this group.
		m.posts.query = api.PostQuery{GroupID: row.ID, Sort: defaultSort, Page: 1}
		m.posts.scopeLabel = "group: " + displayName(row.Name)
		m.view = viewPosts
		return m, m.loadPostsCmd()
	}
}

func topicByID(topics []model.Topic, id int64) (model.Topic, bool) {
	for _, t := range topics {
		if t.ID == id {
			return t, true
		}
	}
	return model.Topic{}, false
}

func (m *appModel) openNewRowModal() {
	switch m.focusedCol {
	case columnTopics:
		if _, ok := m.sel.Category(); !ok {
			m.showMinibufferError("select a category first")
			return
		}
	case columnGroups:
		if _, ok := m.sel.Topic(); !ok {
			m.showMinibufferError("select a topic first")
			return
		}
	}
	m.modal = modalNewRow
	m.modalCol = m.focusedCol
	m.input.SetValue("")
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *appModel) openDeleteRowModal() {
	row := m.focusedRow()
	if row == nil || row.Pending() {
		return
	}
	m.modal = modalConfirmDeleteRow
	m.modalCol = m.focusedCol
	m.modalRowID = row.ID
	m.modalRowName = displayName(row.Name)
	m.confirmFocus = confirmFocusConfirm
}

// Rendering.

func (m appModel) renderTaxonomyBody(width, height int) string {
	if m.taxonomyErr != "" {
		return placeCentered(width, height, styleError().Render(m.taxonomyErr)+"\n\n"+styleMuted().Render("r: retry"))
	}
	if !m.catalogLoaded {
		return placeCentered(width, height, styleMuted().Render("loading "+glyphPending()))
	}

	colW := (width - 2*columnGapW) / 3
	if colW < 12 {
		colW = 12
	}
	gap := strings.Repeat(" ", columnGapW)
	panes := []string{
		m.renderColumn(columnCategories, colW, height),
		gap,
		m.renderColumn(columnTopics, colW, height),
		gap,
		m.renderColumn(columnGroups, colW, height),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

func (m appModel) renderColumn(col columnKind, width, height int) string {
	var b strings.Builder
	b.WriteString(m.renderColumnHeader(col, width))
	b.WriteByte('\n')

	rows := *m.rowsFor(col)
	switch {
	case col == columnTopics && !m.hasCategory():
		b.WriteString(styleMuted().Render(truncateTo("(select a category)", width)))
	case col == columnGroups && !m.hasTopic():
		b.WriteString(styleMuted().Render(truncateTo("(select a topic)", width)))
	case col == columnTopics && m.topicsLoading && len(rows) == 0:
		b.WriteString(styleMuted().Render(glyphPending()))
	case col == columnGroups && m.groupsLoading && len(rows) == 0:
		b.WriteString(styleMuted().Render(glyphPending()))
	case len(rows) == 0:
		b.WriteString(styleMuted().Render("(none)"))
	default:
		visible := height - 1
		start := windowStart(*m.idxFor(col), len(rows), visible)
		end := start + visible
		if end > len(rows) {
			end = len(rows)
		}
		for i := start; i < end; i++ {
			b.WriteString(m.renderColumnRow(col, i, width))
			if i < end-1 {
				b.WriteByte('\n')
			}
		}
	}
	return normalizePane(b.String(), width, height)
}

func (m appModel) renderColumnHeader(col columnKind, width int) string {
	title := strings.ToUpper(col.label()) + "S"
	st := styleMuted().Bold(true)
	if m.focusedCol == col {
		st = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	}
	return st.Render(truncateTo(title, width))
}

func (m appModel) renderColumnRow(col columnKind, i, width int) string {
	rows := *m.rowsFor(col)
	r := &rows[i]
	cursor := m.focusedCol == col && *m.idxFor(col) == i
	selected := (col == columnCategories && m.sel.CategoryIs(r.ID)) ||
		(col == columnTopics && m.sel.TopicIs(r.ID))

	marker := "  "
	if selected {
		marker = glyphBullet() + " "
	}

	name := displayName(r.Name)
	if r.Phase() == rowedit.Editing {
		if m.hasActiveEdit && m.activeEditCol == col && m.activeEditID == r.ID {
			name = m.rowInput.View()
		} else {
			name = r.Draft()
		}
		name = glyphEdit() + " " + name
	}
	if r.Pending() {
		name += " " + glyphPending()
	}

	line := truncateTo(marker+name, width)
	switch {
	case cursor:
		return lipgloss.NewStyle().
			Background(colorSelectedBg).
			Foreground(colorSelectedFg).
			Width(width).
			Render(line)
	case selected:
		return lipgloss.NewStyle().Foreground(colorAccent).Render(line)
	default:
		return line
	}
}

func (m appModel) hasCategory() bool {
	_, ok := m.sel.Category()
	return ok
}

func (m appModel) hasTopic() bool {
	_, ok := m.sel.Topic()
	return ok
}

// windowStart keeps the cursor roughly centered once the rows outgrow the
// pane.
func windowStart(idx, n, h int) int {
	if h < 1 || n <= h {
		return 0
	}
	start := idx - h/2
	if start < 0 {
		start = 0
	}
	if start > n-h {
		start = n - h
	}
	return start
}
