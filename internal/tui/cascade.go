package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"curator-cli/internal/model"
)

// Cascade loads. Child lists are fetched fresh on every parent selection;
// each response carries the parent id it was fetched for so the update loop
// can drop results that arrive after the selection moved on.

func (m appModel) loadTaxonomyCmd() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		catalog, err := c.Taxonomy(context.Background())
		return taxonomyLoadedMsg{catalog: catalog, err: err}
	}
}

func (m appModel) loadTopicsCmd(categoryID int64) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		topics, err := c.Topics(context.Background(), categoryID)
		return topicsLoadedMsg{categoryID: categoryID, topics: topics, err: err}
	}
}

func (m appModel) loadGroupsCmd(topicID int64) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		groups, err := c.Groups(context.Background(), topicID)
		return groupsLoadedMsg{topicID: topicID, groups: groups, err: err}
	}
}

// selectCategory makes cat the cascade anchor: topic and group state is
// cleared and the topic column re-fetched from scratch.
func (m *appModel) selectCategory(cat model.Category) tea.Cmd {
	m.sel.SelectCategory(cat)
	m.topics = nil
	m.topicRows = nil
	m.topicIdx = 0
	m.topicsLoading = true
	m.clearGroups()
	return m.loadTopicsCmd(cat.ID)
}

func (m *appModel) selectTopic(t model.Topic) tea.Cmd {
	m.sel.SelectTopic(t)
	m.clearGroups()
	m.groupsLoading = true
	return m.loadGroupsCmd(t.ID)
}

func (m *appModel) clearGroups() {
	m.groups = nil
	m.groupRows = nil
	m.groupIdx = 0
	m.groupsLoading = false
}

// refetchChildren re-runs the cascade fetch for the given column, if a parent
// selection exists. Used after topic/group mutations.
func (m *appModel) refetchChildren(col columnKind) tea.Cmd {
	switch col {
	case columnTopics:
		cat, ok := m.sel.Category()
		if !ok {
			return nil
		}
		m.topicsLoading = true
		return m.loadTopicsCmd(cat.ID)
	case columnGroups:
		t, ok := m.sel.Topic()
		if !ok {
			return nil
		}
		m.groupsLoading = true
		return m.loadGroupsCmd(t.ID)
	default:
		return nil
	}
}

// mergeTopicsIntoCatalog keeps the preloaded catalog (used by the post form's
// static filter) aligned with a fresh per-category fetch.
func (m *appModel) mergeTopicsIntoCatalog(categoryID int64, topics []model.Topic) {
	kept := m.catalog.Topics[:0]
	for _, t := range m.catalog.Topics {
		if t.CategoryID != categoryID {
			kept = append(kept, t)
		}
	}
	m.catalog.Topics = append(kept, topics...)
}

func (m *appModel) mergeGroupsIntoCatalog(topicID int64, groups []model.Group) {
	kept := m.catalog.Groups[:0]
	for _, g := range m.catalog.Groups {
		if g.TopicID != topicID {
			kept = append(kept, g)
		}
	}
	m.catalog.Groups = append(kept, groups...)
}
