package tui

import (
	"testing"

	"curator-cli/internal/api"
	"curator-cli/internal/model"
	"curator-cli/internal/rowedit"
	"curator-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTaxonomy_EnterOnCategory_SelectsAndFetchesTopics(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	m.catalogLoaded = true
	m.catalog = model.Catalog{Categories: []model.Category{{ID: 1, Name: "Notes"}, {ID: 2, Name: "Work"}}}
	m.catRows = rowsFromCategories(m.catalog.Categories)
	m.catIdx = 1

	mm, cmd := m.updateTaxonomy(tea.KeyMsg{Type: tea.KeyEnter})
	m2 := mm.(appModel)

	if !m2.sel.CategoryIs(2) {
		t.Fatalf("expected category 2 to be selected")
	}
	if m2.focusedCol != columnTopics {
		t.Fatalf("expected focus to move to the topic column, got %v", m2.focusedCol)
	}
	if !m2.topicsLoading {
		t.Fatalf("expected the topic column to be loading")
	}
	if cmd == nil {
		t.Fatalf("expected a topics fetch cmd")
	}
}

func TestTaxonomy_EnterOnCategory_ClearsStaleChildState(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	m.catalogLoaded = true
	m.catRows = rowsFromCategories([]model.Category{{ID: 1, Name: "Notes"}, {ID: 2, Name: "Work"}})
	m.sel.SelectCategory(model.Category{ID: 1, Name: "Notes"})
	m.sel.SelectTopic(model.Topic{ID: 5, Name: "Go", CategoryID: 1})
	m.topics = []model.Topic{{ID: 5, Name: "Go", CategoryID: 1}}
	m.topicRows = rowsFromTopics(m.topics)
	m.groupRows = rowsFromGroups([]model.Group{{ID: 7, Name: "Weekly", TopicID: 5}})
	m.catIdx = 1

	mm, _ := m.updateTaxonomy(tea.KeyMsg{Type: tea.KeyEnter})
	m2 := mm.(appModel)

	if !m2.sel.CategoryIs(2) {
		t.Fatalf("expected the new category to be selected")
	}
	if _, ok := m2.sel.Topic(); ok {
		t.Fatalf("expected the topic selection from the old category to be dropped")
	}
	if len(m2.topicRows) != 0 || len(m2.groupRows) != 0 {
		t.Fatalf("expected child columns to reset, got %d topics / %d groups",
			len(m2.topicRows), len(m2.groupRows))
	}
}

func TestTopicsLoaded_StaleCategoryResponseDropped(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	m.sel.SelectCategory(model.Category{ID: 2, Name: "Work"})
	m.topicsLoading = true

	mm, _ := m.Update(topicsLoadedMsg{
		categoryID: 1,
		topics:     []model.Topic{{ID: 9, Name: "Old", CategoryID: 1}},
	})
	m2 := mm.(appModel)

	if len(m2.topicRows) != 0 {
		t.Fatalf("expected topics for a superseded selection to be dropped, got %d rows", len(m2.topicRows))
	}
	if !m2.topicsLoading {
		t.Fatalf("expected the in-flight fetch for the current selection to stay pending")
	}
}

func TestTopicsLoaded_FillsRowsAndCatalog(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	m.sel.SelectCategory(model.Category{ID: 2, Name: "Work"})
	m.topicsLoading = true

	topics := []model.Topic{
		{ID: 5, Name: "Go", CategoryID: 2},
		{ID: 6, Name: "Rust", CategoryID: 2},
	}
	mm, _ := m.Update(topicsLoadedMsg{categoryID: 2, topics: topics})
	m2 := mm.(appModel)

	if m2.topicsLoading {
		t.Fatalf("expected the loading flag to clear")
	}
	if len(m2.topicRows) != 2 || m2.topicRows[0].Name != "Go" {
		t.Fatalf("expected topic rows from the response, got %#v", m2.topicRows)
	}
	if _, ok := m2.catalog.TopicByID(6); !ok {
		t.Fatalf("expected fresh topics to be merged into the catalog")
	}
}

func TestTopicsLoaded_KeepsInProgressEdit(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	m.sel.SelectCategory(model.Category{ID: 2, Name: "Work"})
	m.topicRows = rowsFromTopics([]model.Topic{{ID: 5, Name: "Go", CategoryID: 2}})
	m.topicRows[0].BeginEdit()
	m.topicRows[0].SetDraft("Golang")

	mm, _ := m.Update(topicsLoadedMsg{categoryID: 2, topics: []model.Topic{
		{ID: 5, Name: "Go", CategoryID: 2},
		{ID: 6, Name: "Rust", CategoryID: 2},
	}})
	m2 := mm.(appModel)

	r := rowedit.ByID(m2.topicRows, 5)
	if r == nil || r.Phase() != rowedit.Editing || r.Draft() != "Golang" {
		t.Fatalf("expected the edit draft to survive the refresh, got %#v", r)
	}
}

func TestTaxonomy_RenameToBlank_RefusedBeforeAnyRequest(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	m.catalogLoaded = true
	m.catRows = rowsFromCategories([]model.Category{{ID: 1, Name: "Notes"}})
	m.catRows[0].BeginEdit()
	m.catRows[0].SetDraft("   ")
	(&m).syncRowInput()

	mm, cmd := m.updateTaxonomy(tea.KeyMsg{Type: tea.KeyEnter})
	m2 := mm.(appModel)

	if cmd != nil {
		t.Fatalf("expected no request for a blank name")
	}
	if m2.minibufferText != "name is required" || !m2.minibufferIsErr {
		t.Fatalf("expected the empty-name error, got %q", m2.minibufferText)
	}
	if m2.catRows[0].Phase() != rowedit.Editing {
		t.Fatalf("expected the row to stay editing")
	}
}

func TestTaxonomy_EscWalksSelectionUpOneLevel(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	m.catalogLoaded = true
	m.sel.SelectCategory(model.Category{ID: 1, Name: "Notes"})
	m.sel.SelectTopic(model.Topic{ID: 5, Name: "Go", CategoryID: 1})
	m.groupRows = rowsFromGroups([]model.Group{{ID: 7, Name: "Weekly", TopicID: 5}})
	m.focusedCol = columnGroups

	mm, _ := m.updateTaxonomy(tea.KeyMsg{Type: tea.KeyEsc})
	m2 := mm.(appModel)

	if _, ok := m2.sel.Topic(); ok {
		t.Fatalf("expected the topic selection to drop first")
	}
	if !m2.sel.CategoryIs(1) {
		t.Fatalf("expected the category selection to survive the first esc")
	}
	if len(m2.groupRows) != 0 {
		t.Fatalf("expected the group column to clear")
	}
	if m2.focusedCol != columnTopics {
		t.Fatalf("expected focus on the topic column, got %v", m2.focusedCol)
	}

	mm, _ = m2.updateTaxonomy(tea.KeyMsg{Type: tea.KeyEsc})
	m3 := mm.(appModel)

	if _, ok := m3.sel.Category(); ok {
		t.Fatalf("expected the category selection to drop on the second esc")
	}
	if m3.focusedCol != columnCategories {
		t.Fatalf("expected focus back on the category column, got %v", m3.focusedCol)
	}
}

func TestTaxonomy_EditKeyOnPendingRowIgnored(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	m.catalogLoaded = true
	m.catRows = rowsFromCategories([]model.Category{{ID: 1, Name: "Notes"}})
	if err := m.catRows[0].BeginDelete(); err != nil {
		t.Fatalf("BeginDelete: %v", err)
	}

	mm, _ := m.updateTaxonomy(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	m2 := mm.(appModel)

	if m2.catRows[0].Phase() != rowedit.Viewing {
		t.Fatalf("expected a pending row to refuse entering edit mode")
	}
}
