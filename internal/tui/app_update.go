package tui

import (
	"strings"
	"time"

	"curator-cli/internal/api"
	"curator-cli/internal/model"
	"curator-cli/internal/rowedit"
	"curator-cli/internal/taxonomy"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.seenWindowSize = true
		m.resizeLists()
		return m, nil

	case tickMsg:
		if m.minibufferText != "" && time.Since(m.minibufferSetAt) >= minibufferAutoClearAfter {
			m.minibufferText = ""
			m.minibufferIsErr = false
		}
		return m, tick()

	case taxonomyLoadedMsg:
		return m.onTaxonomyLoaded(msg)
	case topicsLoadedMsg:
		return m.onTopicsLoaded(msg)
	case groupsLoadedMsg:
		return m.onGroupsLoaded(msg)
	case mutationDoneMsg:
		return m.onMutationDone(msg)
	case statusSavedMsg:
		return m.onStatusSaved(msg)
	case postsLoadedMsg:
		return m.onPostsLoaded(msg)
	case postLoadedMsg:
		return m.onPostLoaded(msg)
	case postSavedMsg:
		return m.onPostSaved(msg)
	case postDeletedMsg:
		return m.onPostDeleted(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		switch m.view {
		case viewPosts:
			return m.updatePosts(msg)
		case viewPostDetail:
			return m.updatePostDetail(msg)
		case viewPostForm:
			return m.updatePostForm(msg)
		default:
			return m.updateTaxonomy(msg)
		}
	}
	return m, nil
}

func (m appModel) onTaxonomyLoaded(msg taxonomyLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.taxonomyErr = api.UserMessage(msg.err)
		return m, nil
	}
	m.taxonomyErr = ""
	m.catalogLoaded = true
	m.catalog = msg.catalog

	// Re-resolve the selection against the fresh catalog.
	if cat, ok := m.sel.Category(); ok {
		if fresh, found := m.catalog.CategoryByID(cat.ID); found {
			m.sel.RenameCategory(fresh.ID, fresh.Name)
		} else {
			m.sel.DropCategory(cat.ID)
		}
	}
	if t, ok := m.sel.Topic(); ok {
		if fresh, found := m.catalog.TopicByID(t.ID); found {
			m.sel.RenameTopic(fresh.ID, fresh.Name)
		} else {
			m.sel.DropTopic(t.ID)
		}
	}

	// One-shot restore of the previous session's selection. Vanished ids
	// degrade to no selection.
	if m.restoreCategoryID != 0 {
		if cat, found := m.catalog.CategoryByID(m.restoreCategoryID); found {
			m.sel.SelectCategory(cat)
			if m.restoreTopicID != 0 {
				if t, foundT := m.catalog.TopicByID(m.restoreTopicID); foundT && t.CategoryID == cat.ID {
					m.sel.SelectTopic(t)
				}
			}
		}
		m.restoreCategoryID, m.restoreTopicID = 0, 0
	}

	m.rebuildColumnsFromCatalog()
	return m, nil
}

// rebuildColumnsFromCatalog refills all three columns from the preloaded
// catalog, keeping in-progress edits for rows that survived.
func (m *appModel) rebuildColumnsFromCatalog() {
	m.stashActiveEdit()
	m.catRows = mergeRowEdits(m.catRows, rowsFromCategories(m.catalog.Categories))
	m.catIdx = clampIdx(m.catIdx, len(m.catRows))

	if cat, ok := m.sel.Category(); ok {
		m.topics = taxonomy.TopicsFor(cat.ID, m.catalog.Topics)
		m.topicRows = mergeRowEdits(m.topicRows, rowsFromTopics(m.topics))
		m.topicsLoading = false
	} else {
		m.topics = nil
		m.topicRows = nil
	}
	m.topicIdx = clampIdx(m.topicIdx, len(m.topicRows))

	if t, ok := m.sel.Topic(); ok {
		m.groups = taxonomy.GroupsFor(t.ID, m.catalog.Groups)
		m.groupRows = mergeRowEdits(m.groupRows, rowsFromGroups(m.groups))
		m.groupsLoading = false
	} else {
		m.groups = nil
		m.groupRows = nil
	}
	m.groupIdx = clampIdx(m.groupIdx, len(m.groupRows))

	m.syncRowInput()
}

// mergeRowEdits carries editing phase and drafts from the old rows onto a
// freshly fetched set.
func mergeRowEdits(old, fresh []rowedit.Row) []rowedit.Row {
	for i := range fresh {
		prev := rowedit.ByID(old, fresh[i].ID)
		if prev == nil || prev.Phase() != rowedit.Editing {
			continue
		}
		fresh[i].BeginEdit()
		fresh[i].SetDraft(prev.Draft())
	}
	return fresh
}

func (m appModel) onTopicsLoaded(msg topicsLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.sel.CategoryIs(msg.categoryID) {
		// Selection moved on while the fetch was in flight.
		return m, nil
	}
	m.topicsLoading = false
	if msg.err != nil {
		m.showMinibufferError(api.UserMessage(msg.err))
		return m, nil
	}
	m.stashActiveEdit()
	m.topics = msg.topics
	m.topicRows = mergeRowEdits(m.topicRows, rowsFromTopics(msg.topics))
	m.topicIdx = clampIdx(m.topicIdx, len(m.topicRows))
	m.mergeTopicsIntoCatalog(msg.categoryID, msg.topics)
	m.syncRowInput()
	return m, nil
}

func (m appModel) onGroupsLoaded(msg groupsLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.sel.TopicIs(msg.topicID) {
		return m, nil
	}
	m.groupsLoading = false
	if msg.err != nil {
		m.showMinibufferError(api.UserMessage(msg.err))
		return m, nil
	}
	m.stashActiveEdit()
	m.groups = msg.groups
	m.groupRows = mergeRowEdits(m.groupRows, rowsFromGroups(msg.groups))
	m.groupIdx = clampIdx(m.groupIdx, len(m.groupRows))
	m.mergeGroupsIntoCatalog(msg.topicID, msg.groups)
	m.syncRowInput()
	return m, nil
}

func (m appModel) onMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	m.modalPending = false
	rows := m.rowsFor(msg.column)

	if msg.err != nil {
		m.showMinibufferError(api.UserMessage(msg.err))
		if r := rowedit.ByID(*rows, msg.entityID); r != nil {
			switch msg.op {
			case opRename:
				r.SaveFailed()
			case opDelete:
				r.DeleteFailed()
			}
		}
		// A failed create leaves the modal open with the typed name intact.
		m.syncRowInput()
		return m, nil
	}

	var cmds []tea.Cmd
	switch msg.op {
	case opCreate:
		m.modal = modalNone
		m.input.SetValue("")
		m.showMinibuffer(msg.column.label() + " created")

	case opRename:
		if r := rowedit.ByID(*rows, msg.entityID); r != nil {
			r.SaveOK(msg.name)
			if m.hasActiveEdit && m.activeEditCol == msg.column && m.activeEditID == msg.entityID {
				m.hasActiveEdit = false
				m.rowInput.Blur()
			}
		}
		m.renameInCatalog(msg.column, msg.entityID, msg.name)
		m.showMinibuffer(msg.column.label() + " renamed")

	case opDelete:
		*rows = dropRowByID(*rows, msg.entityID)
		idx := m.idxFor(msg.column)
		*idx = clampIdx(*idx, len(*rows))
		switch msg.column {
		case columnCategories:
			if m.sel.CategoryIs(msg.entityID) {
				m.sel.DropCategory(msg.entityID)
				m.topics = nil
				m.topicRows = nil
				m.topicIdx = 0
				m.clearGroups()
			}
		case columnTopics:
			if m.sel.TopicIs(msg.entityID) {
				m.sel.DropTopic(msg.entityID)
				m.clearGroups()
			}
		}
		m.showMinibuffer(msg.column.label() + " deleted")
	}

	// Refresh the affected column from the server. Category changes can ripple
	// into every level, so those reload the whole catalog.
	if msg.column == columnCategories || msg.op == opDelete {
		cmds = append(cmds, m.loadTaxonomyCmd())
	}
	if c := m.refetchChildren(msg.column); c != nil {
		cmds = append(cmds, c)
	}
	m.syncRowInput()
	return m, tea.Batch(cmds...)
}

func dropRowByID(rows []rowedit.Row, id int64) []rowedit.Row {
	kept := rows[:0]
	for _, r := range rows {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	return kept
}

func (m *appModel) renameInCatalog(col columnKind, id int64, name string) {
	switch col {
	case columnCategories:
		m.sel.RenameCategory(id, name)
		for i := range m.catalog.Categories {
			if m.catalog.Categories[i].ID == id {
				m.catalog.Categories[i].Name = name
			}
		}
	case columnTopics:
		m.sel.RenameTopic(id, name)
		for i := range m.catalog.Topics {
			if m.catalog.Topics[i].ID == id {
				m.catalog.Topics[i].Name = name
			}
		}
		for i := range m.topics {
			if m.topics[i].ID == id {
				m.topics[i].Name = name
			}
		}
	case columnGroups:
		for i := range m.catalog.Groups {
			if m.catalog.Groups[i].ID == id {
				m.catalog.Groups[i].Name = name
			}
		}
		for i := range m.groups {
			if m.groups[i].ID == id {
				m.groups[i].Name = name
			}
		}
	}
}

// togglePost starts an optimistic status change. Asking for the state the
// post is already in is a no-op; a post with a change in flight ignores
// further toggles until the server answers.
func (m *appModel) togglePost(p model.Post, target model.Status) tea.Cmd {
	if _, busy := m.posts.togglePending[p.ID]; busy {
		return nil
	}
	if p.Status == target {
		return nil
	}
	if !p.Status.Toggleable() || !target.Toggleable() {
		m.showMinibufferError("drafts are published from the editor")
		return nil
	}
	m.posts.togglePending[p.ID] = p.Status
	m.setPostStatusLocal(p.ID, target)
	return m.saveStatusCmd(p.ID, target, p.Status)
}

// setPostStatusLocal applies a status to every local copy of the post: the
// table row and, when open, the detail view.
func (m *appModel) setPostStatusLocal(id int64, s model.Status) {
	items := m.posts.list.Items()
	for i, it := range items {
		pi, ok := it.(postItem)
		if !ok || pi.post.ID != id {
			continue
		}
		pi.post.Status = s
		_, pi.pending = m.posts.togglePending[id]
		m.posts.list.SetItem(i, pi)
		break
	}
	if m.openPost != nil && m.openPost.ID == id {
		m.openPost.Status = s
		m.detail.SetContent(m.renderDetailContent())
	}
}

func (m appModel) onStatusSaved(msg statusSavedMsg) (tea.Model, tea.Cmd) {
	delete(m.posts.togglePending, msg.postID)
	if msg.err != nil {
		m.setPostStatusLocal(msg.postID, msg.prior)
		m.showMinibufferError(api.UserMessage(msg.err))
		return m, nil
	}
	m.setPostStatusLocal(msg.postID, msg.target)
	m.showMinibuffer("post is now " + msg.target.String())
	return m, nil
}

func (m appModel) onPostsLoaded(msg postsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.posts.loadSeq {
		// A newer query superseded this response.
		return m, nil
	}
	m.posts.loading = false
	if msg.err != nil {
		m.posts.errText = api.UserMessage(msg.err)
		return m, nil
	}
	m.posts.errText = ""
	m.posts.page = msg.page
	if msg.page.Page > 0 {
		// The server clamps out-of-range pages.
		m.posts.query.Page = msg.page.Page
	}
	items := make([]list.Item, len(msg.page.Posts))
	for i, p := range msg.page.Posts {
		_, pending := m.posts.togglePending[p.ID]
		items[i] = postItem{post: p, pending: pending}
	}
	return m, m.posts.list.SetItems(items)
}

func (m appModel) onPostLoaded(msg postLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.formAfterLoad = false
		if m.view == viewPostDetail {
			m.detailErr = api.UserMessage(msg.err)
		} else {
			m.showMinibufferError(api.UserMessage(msg.err))
		}
		return m, nil
	}
	if msg.post.ID != m.openPostID {
		return m, nil
	}
	post := msg.post
	if m.formAfterLoad {
		m.formAfterLoad = false
		m.form = newPostForm(m.catalog, &post)
		m.sizeForm()
		m.view = viewPostForm
		return m, nil
	}
	m.openPost = &post
	m.detailErr = ""
	m.detail.SetContent(m.renderDetailContent())
	m.detail.GotoTop()
	return m, nil
}

func (m appModel) onPostSaved(msg postSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if m.form != nil {
			m.form.saving = false
			m.form.errText = api.UserMessage(msg.err)
		} else {
			m.showMinibufferError(api.UserMessage(msg.err))
		}
		return m, nil
	}
	m.form = nil
	if msg.created {
		m.showMinibuffer("post created")
	} else {
		m.showMinibuffer("post saved")
	}
	if m.view == viewPostForm {
		m.view = m.formReturn
	}
	m.openPostID = msg.id

	cmds := []tea.Cmd{m.loadPostsCmd()}
	if m.view == viewPostDetail {
		m.openPost = nil
		cmds = append(cmds, m.loadPostCmd(msg.id))
	}
	if m.taxonomyDirty {
		m.taxonomyDirty = false
		cmds = append(cmds, m.loadTaxonomyCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m appModel) onPostDeleted(msg postDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.showMinibufferError(api.UserMessage(msg.err))
		return m, nil
	}
	m.showMinibuffer("post deleted")
	if m.openPostID == msg.id {
		m.openPost = nil
		m.openPostID = 0
		if m.view == viewPostDetail {
			m.view = viewPosts
		}
	}
	return m, m.loadPostsCmd()
}

// updateModal routes keys while a modal is up. Modals capture everything.
func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalNewRow:
		return m.updateNewRowModal(msg)
	case modalConfirmDeleteRow:
		return m.updateConfirmModal(msg, func(m *appModel) tea.Cmd {
			r := rowedit.ByID(*m.rowsFor(m.modalCol), m.modalRowID)
			if r == nil {
				return nil
			}
			if err := r.BeginDelete(); err != nil {
				return nil
			}
			return m.deleteRowCmd(m.modalCol, m.modalRowID)
		})
	case modalConfirmDeletePost:
		return m.updateConfirmModal(msg, func(m *appModel) tea.Cmd {
			return m.deletePostCmd(m.modalPostID)
		})
	}
	return m, nil
}

func (m appModel) updateNewRowModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		// modalPending survives the close: the in-flight create still blocks
		// a second submit if the modal is reopened before it lands.
		m.modal = modalNone
		return m, nil
	case "enter":
		if m.modalPending {
			return m, nil
		}
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.showMinibufferError("name is required")
			return m, nil
		}
		cmd := m.createRowCmd(m.modalCol, name)
		if cmd == nil {
			// Parent selection vanished under the modal.
			m.modal = modalNone
			return m, nil
		}
		m.modalPending = true
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateConfirmModal(msg tea.KeyMsg, confirm func(*appModel) tea.Cmd) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.modal = modalNone
		return m, nil
	case "tab", "left", "right", "h", "l":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	case "enter":
		if m.confirmFocus == confirmFocusCancel {
			m.modal = modalNone
			return m, nil
		}
		cmd := confirm(&m)
		m.modal = modalNone
		return m, cmd
	}
	return m, nil
}
