package tui

import (
	"fmt"
	"strings"

	"curator-cli/internal/api"
	"curator-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) updatePosts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.posts.searching {
		switch msg.String() {
		case "enter":
			m.posts.searching = false
			m.posts.query.Q = strings.TrimSpace(m.posts.search.Value())
			m.posts.query.Page = 1
			return m, m.loadPostsCmd()
		case "esc", "ctrl+g":
			m.posts.searching = false
			m.posts.search.SetValue(m.posts.query.Q)
			return m, nil
		}
		var cmd tea.Cmd
		m.posts.search, cmd = m.posts.search.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "tab":
		m.view = viewTaxonomy
		return m, nil
	case "/":
		m.posts.searching = true
		m.posts.search.SetValue(m.posts.query.Q)
		m.posts.search.CursorEnd()
		m.posts.search.Focus()
		return m, nil
	case "r":
		return m, m.loadPostsCmd()
	case "s":
		if m.posts.query.Sort == "created_asc" {
			m.posts.query.Sort = "created_desc"
		} else {
			m.posts.query.Sort = "created_asc"
		}
		m.posts.query.Page = 1
		return m, m.loadPostsCmd()
	case "f":
		m.posts.query.Status = nextStatusFilter(m.posts.query.Status)
		m.posts.query.Page = 1
		return m, m.loadPostsCmd()
	case "x":
		m.posts.query = api.PostQuery{Sort: m.posts.query.Sort, Page: 1}
		m.posts.scopeLabel = ""
		m.posts.search.SetValue("")
		return m, m.loadPostsCmd()
	case "[":
		if m.posts.query.Page > 1 {
			m.posts.query.Page--
			return m, m.loadPostsCmd()
		}
		return m, nil
	case "]":
		if m.posts.page.Pages == 0 || m.posts.query.Page < m.posts.page.Pages {
			m.posts.query.Page++
			return m, m.loadPostsCmd()
		}
		return m, nil
	case "enter":
		p, ok := m.selectedPost()
		if !ok {
			return m, nil
		}
		m.openPostID = p.ID
		m.openPost = nil
		m.detailErr = ""
		m.view = viewPostDetail
		return m, m.loadPostCmd(p.ID)
	case "e":
		p, ok := m.selectedPost()
		if !ok {
			return m, nil
		}
		// The table rows omit content; fetch the full post first.
		m.openPostID = p.ID
		m.formAfterLoad = true
		m.formReturn = viewPosts
		return m, m.loadPostCmd(p.ID)
	case "n":
		if !m.catalogLoaded {
			m.showMinibufferError("taxonomy is still loading")
			return m, nil
		}
		m.form = newPostForm(m.catalog, nil)
		m.sizeForm()
		m.formReturn = viewPosts
		m.view = viewPostForm
		return m, nil
	case "p":
		if p, ok := m.selectedPost(); ok {
			return m, m.togglePost(p, model.StatusPublic)
		}
		return m, nil
	case "u":
		if p, ok := m.selectedPost(); ok {
			return m, m.togglePost(p, model.StatusPrivate)
		}
		return m, nil
	case "d":
		if p, ok := m.selectedPost(); ok {
			m.modal = modalConfirmDeletePost
			m.modalPostID = p.ID
			m.modalRowName = displayTitle(p)
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.posts.list, cmd = m.posts.list.Update(msg)
	return m, cmd
}

func (m appModel) selectedPost() (model.Post, bool) {
	it, ok := m.posts.list.SelectedItem().(postItem)
	if !ok {
		return model.Post{}, false
	}
	return it.post, true
}

func displayTitle(p model.Post) string {
	if strings.TrimSpace(p.Title) == "" {
		return "(untitled)"
	}
	return p.Title
}

// nextStatusFilter cycles all -> public -> private -> draft -> all.
func nextStatusFilter(s *model.Status) *model.Status {
	if s == nil {
		v := model.StatusPublic
		return &v
	}
	switch *s {
	case model.StatusPublic:
		v := model.StatusPrivate
		return &v
	case model.StatusPrivate:
		v := model.StatusDraft
		return &v
	default:
		return nil
	}
}

func (m appModel) postsStatusLine() string {
	var parts []string
	if m.posts.page.Pages > 0 {
		parts = append(parts, fmt.Sprintf("page %d/%d", m.posts.page.Page, m.posts.page.Pages))
	}
	parts = append(parts, fmt.Sprintf("%d posts", m.posts.page.Total))
	if m.posts.query.Q != "" {
		parts = append(parts, "q: "+m.posts.query.Q)
	}
	if m.posts.query.Status != nil {
		parts = append(parts, "status: "+m.posts.query.Status.String())
	}
	if m.posts.scopeLabel != "" {
		parts = append(parts, m.posts.scopeLabel)
	}
	parts = append(parts, sortLabel(m.posts.query.Sort))
	if m.posts.loading {
		parts = append(parts, glyphPending())
	}
	return styleMuted().Render(strings.Join(parts, " · "))
}

func sortLabel(sort string) string {
	if sort == "created_asc" {
		return "oldest first"
	}
	return "newest first"
}

func (m appModel) renderPostsBody(width, height int) string {
	var b strings.Builder
	if m.posts.searching {
		b.WriteString(truncateTo(m.posts.search.View(), width))
	} else {
		b.WriteString(truncateTo(m.postsStatusLine(), width))
	}
	b.WriteString("\n\n")

	switch {
	case m.posts.errText != "":
		b.WriteString(styleError().Render(m.posts.errText))
		b.WriteString("\n\n")
		b.WriteString(styleMuted().Render("r: retry"))
	case m.posts.loading && len(m.posts.list.Items()) == 0:
		b.WriteString(styleMuted().Render("loading " + glyphPending()))
	case len(m.posts.list.Items()) == 0:
		b.WriteString(styleMuted().Render("(no posts)"))
	default:
		b.WriteString(m.posts.list.View())
	}
	return normalizePane(b.String(), width, height)
}
