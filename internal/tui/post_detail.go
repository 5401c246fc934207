package tui

import (
	"strings"

	"curator-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m appModel) updatePostDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.view = viewPosts
		return m, nil
	case "e":
		if m.openPost == nil {
			return m, nil
		}
		if !m.catalogLoaded {
			m.showMinibufferError("taxonomy is still loading")
			return m, nil
		}
		m.form = newPostForm(m.catalog, m.openPost)
		m.sizeForm()
		m.formReturn = viewPostDetail
		m.view = viewPostForm
		return m, nil
	case "p":
		if m.openPost != nil {
			return m, m.togglePost(*m.openPost, model.StatusPublic)
		}
		return m, nil
	case "u":
		if m.openPost != nil {
			return m, m.togglePost(*m.openPost, model.StatusPrivate)
		}
		return m, nil
	case "d":
		if m.openPost != nil {
			m.modal = modalConfirmDeletePost
			m.modalPostID = m.openPost.ID
			m.modalRowName = displayTitle(*m.openPost)
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	case "r":
		if m.openPostID > 0 {
			m.detailErr = ""
			return m, m.loadPostCmd(m.openPostID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// renderDetailContent builds the pager content: title, a metadata line, then
// the post body rendered as markdown.
func (m appModel) renderDetailContent() string {
	p := m.openPost
	w := m.detail.Width
	if w <= 0 {
		w = 80
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(truncateTo(displayTitle(*p), w)))
	b.WriteString("\n")
	b.WriteString(truncateTo(m.detailMetaLine(*p), w))
	b.WriteString("\n\n")
	if strings.TrimSpace(p.Content) == "" {
		b.WriteString(styleMuted().Render("(no content)"))
	} else {
		b.WriteString(renderMarkdown(p.Content, w))
	}
	return b.String()
}

func (m appModel) detailMetaLine(p model.Post) string {
	status := lipgloss.NewStyle().
		Foreground(statusColor(p.Status)).
		Render(glyphStatus(p.Status) + " " + p.Status.String())
	if _, pending := m.posts.togglePending[p.ID]; pending {
		status += " " + glyphPending()
	}

	parts := []string{status, taxonomyPath(p)}
	if !p.CreatedAt.IsZero() {
		parts = append(parts, "created "+p.CreatedAt.Format("2006-01-02"))
	}
	if p.UpdatedAt != nil {
		parts = append(parts, "updated "+p.UpdatedAt.Format("2006-01-02"))
	}
	return strings.Join(parts, styleMuted().Render(" · "))
}

func (m appModel) renderPostDetailBody(width, height int) string {
	switch {
	case m.detailErr != "":
		return placeCentered(width, height,
			styleError().Render(m.detailErr)+"\n\n"+styleMuted().Render("r: retry   esc: back"))
	case m.openPost == nil:
		return placeCentered(width, height, styleMuted().Render("loading "+glyphPending()))
	default:
		return normalizePane(m.detail.View(), width, height)
	}
}
