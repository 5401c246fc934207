package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

var _ tea.Model = appModel{}

func (m appModel) View() string {
	if !m.seenWindowSize {
		return ""
	}

	w, h := m.bodyWidth(), m.bodyHeight()
	var body string
	switch m.view {
	case viewPosts:
		body = m.renderPostsBody(w, h)
	case viewPostDetail:
		body = m.renderPostDetailBody(w, h)
	case viewPostForm:
		body = m.renderPostFormBody(w, h)
	default:
		body = m.renderTaxonomyBody(w, h)
	}
	if m.modal != modalNone {
		body = m.renderModal(w, h)
	}

	return strings.Join([]string{
		m.renderHeader(),
		body,
		m.renderMinibuffer(w),
		m.renderFooter(w),
	}, "\n")
}

func (m appModel) renderHeader() string {
	name := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("curator")
	crumb := faintIfDark(lipgloss.NewStyle().Foreground(colorChromeMutedFg))
	left := name + "  " + crumb.Render(m.headerCrumb())
	server := styleMuted().Render(m.client.BaseURL)

	gap := m.bodyWidth() - xansi.StringWidth(left) - xansi.StringWidth(server)
	if gap < 2 {
		return truncateTo(left, m.bodyWidth())
	}
	return left + strings.Repeat(" ", gap) + server
}

func (m appModel) headerCrumb() string {
	switch m.view {
	case viewPosts:
		return "posts"
	case viewPostDetail:
		if m.openPost != nil {
			return "post: " + displayTitle(*m.openPost)
		}
		return fmt.Sprintf("post #%d", m.openPostID)
	case viewPostForm:
		if m.form != nil && m.form.editingID != 0 {
			return fmt.Sprintf("edit post #%d", m.form.editingID)
		}
		return "new post"
	default:
		parts := []string{"taxonomy"}
		if cat, ok := m.sel.Category(); ok {
			parts = append(parts, displayName(cat.Name))
		}
		if t, ok := m.sel.Topic(); ok {
			parts = append(parts, displayName(t.Name))
		}
		return strings.Join(parts, " "+glyphArrow()+" ")
	}
}

func (m appModel) renderMinibuffer(width int) string {
	if m.minibufferText == "" {
		return ""
	}
	st := styleMuted()
	if m.minibufferIsErr {
		st = styleError()
	}
	return truncateTo(st.Render(m.minibufferText), width)
}

func (m appModel) renderFooter(width int) string {
	var help string
	switch {
	case m.modal == modalNewRow:
		help = "enter: create   esc: cancel"
	case m.modal != modalNone:
		help = ""
	case m.view == viewTaxonomy:
		if row := m.focusedRow(); row != nil && m.hasActiveEdit {
			help = "enter: save   esc: discard   ctrl+p/ctrl+n: move"
		} else {
			help = "enter: select   e: edit   n: new   d: delete   r: reload   tab: posts   q: quit"
		}
	case m.view == viewPosts:
		if m.posts.searching {
			help = "enter: search   esc: cancel"
		} else {
			help = "enter: open   n: new   e: edit   p/u: public/private   d: delete   /: search   f: status   s: sort   [/]: page   x: clear   tab: taxonomy"
		}
	case m.view == viewPostDetail:
		help = "e: edit   p/u: public/private   d: delete   r: reload   esc: back"
	case m.view == viewPostForm:
		help = "tab: field   ctrl+t: existing/new   ctrl+s: save   esc: cancel"
	}
	return truncateTo(styleMuted().Render(help), width)
}

func (m appModel) renderModal(width, height int) string {
	switch m.modal {
	case modalNewRow:
		bodyW := modalBodyWidth(width)
		content := renderInputLine(bodyW, m.input.View())
		if m.modalPending {
			content += "\n" + styleMuted().Render("creating "+glyphPending())
		}
		box := renderModalBox(width, "new "+m.modalCol.label(), content)
		return placeCentered(width, height, box)
	case modalConfirmDeleteRow:
		box := renderConfirmModal(width, "delete "+m.modalCol.label(),
			fmt.Sprintf("Delete %q?", m.modalRowName), "delete", "cancel", m.confirmFocus)
		return placeCentered(width, height, box)
	case modalConfirmDeletePost:
		box := renderConfirmModal(width, "delete post",
			fmt.Sprintf("Delete %q?", m.modalRowName), "delete", "cancel", m.confirmFocus)
		return placeCentered(width, height, box)
	}
	return ""
}
