package tui

import (
	"testing"

	"curator-cli/internal/api"
	"curator-cli/internal/model"
	"curator-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func TestPostsLoaded_StaleResponseDropped(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	m.view = viewPosts
	m.posts.loading = true
	m.posts.loadSeq = 3

	mm, _ := m.Update(postsLoadedMsg{
		page: api.PostPage{Posts: []model.Post{{ID: 1, Title: "Old"}}, Page: 1, Pages: 1, Total: 1},
		seq:  2,
	})
	m2 := mm.(appModel)

	if !m2.posts.loading {
		t.Fatalf("expected the newer query to stay in flight")
	}
	if len(m2.posts.list.Items()) != 0 {
		t.Fatalf("expected rows from the superseded query to be dropped")
	}
}

func TestPostsLoaded_AppliesPageAndServerClamp(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	m.view = viewPosts
	m.posts.loading = true
	m.posts.loadSeq = 3
	m.posts.query.Page = 9

	page := api.PostPage{
		Posts: []model.Post{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}},
		Page:  2, Pages: 2, Total: 27,
	}
	mm, _ := m.Update(postsLoadedMsg{page: page, seq: 3})
	m2 := mm.(appModel)

	if m2.posts.loading {
		t.Fatalf("expected the loading flag to clear")
	}
	if m2.posts.query.Page != 2 {
		t.Fatalf("expected the query page clamped to the served page, got %d", m2.posts.query.Page)
	}
	if len(m2.posts.list.Items()) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(m2.posts.list.Items()))
	}
}

func TestPostsLoaded_ErrorKeepsRowsAndShowsMessage(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	m.view = viewPosts
	m.posts.loading = true
	m.posts.loadSeq = 1

	mm, _ := m.Update(postsLoadedMsg{
		seq: 1,
		err: &api.Error{Endpoint: "/admin/api/posts", Status: 500, Message: "database is locked"},
	})
	m2 := mm.(appModel)

	if m2.posts.errText != "database is locked" {
		t.Fatalf("expected the server's words, got %q", m2.posts.errText)
	}
	if m2.posts.loading {
		t.Fatalf("expected the loading flag to clear")
	}
}

func TestPostsKeys_PagingStopsAtBounds(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	m.view = viewPosts
	m.posts.query.Page = 1
	m.posts.page = api.PostPage{Page: 1, Pages: 2, Total: 30}

	mm, cmd := m.updatePosts(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'['}})
	m2 := mm.(appModel)
	if cmd != nil || m2.posts.query.Page != 1 {
		t.Fatalf("expected no fetch below page 1")
	}

	mm, cmd = m2.updatePosts(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}})
	m3 := mm.(appModel)
	if cmd == nil || m3.posts.query.Page != 2 {
		t.Fatalf("expected a forward page fetch, page=%d", m3.posts.query.Page)
	}

	m3.posts.page = api.PostPage{Page: 2, Pages: 2, Total: 30}
	mm, cmd = m3.updatePosts(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}})
	m4 := mm.(appModel)
	if cmd != nil || m4.posts.query.Page != 2 {
		t.Fatalf("expected no fetch past the last page, page=%d", m4.posts.query.Page)
	}
}

func TestPostsKeys_StatusFilterCycles(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	m.view = viewPosts

	next := func(mm appModel) appModel {
		t.Helper()
		r, cmd := mm.updatePosts(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
		if cmd == nil {
			t.Fatalf("expected a refetch on every filter change")
		}
		return r.(appModel)
	}

	m = next(m)
	if m.posts.query.Status == nil || *m.posts.query.Status != model.StatusPublic {
		t.Fatalf("expected public after the first cycle")
	}
	if m.posts.query.Page != 1 {
		t.Fatalf("expected the filter change to reset paging")
	}
	m = next(m)
	if m.posts.query.Status == nil || *m.posts.query.Status != model.StatusPrivate {
		t.Fatalf("expected private after the second cycle")
	}
	m = next(m)
	if m.posts.query.Status == nil || *m.posts.query.Status != model.StatusDraft {
		t.Fatalf("expected draft after the third cycle")
	}
	m = next(m)
	if m.posts.query.Status != nil {
		t.Fatalf("expected the cycle to land back on all")
	}
}

func TestPostsSearch_EnterAppliesTrimmedQueryAndResetsPage(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	m.view = viewPosts
	m.posts.query.Page = 3

	mm, _ := m.updatePosts(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m2 := mm.(appModel)
	if !m2.posts.searching {
		t.Fatalf("expected the search input to open")
	}

	m2.posts.search.SetValue("  golang  ")
	mm, cmd := m2.updatePosts(tea.KeyMsg{Type: tea.KeyEnter})
	m3 := mm.(appModel)

	if m3.posts.searching {
		t.Fatalf("expected the search input to close")
	}
	if m3.posts.query.Q != "golang" {
		t.Fatalf("expected the trimmed query, got %q", m3.posts.query.Q)
	}
	if m3.posts.query.Page != 1 {
		t.Fatalf("expected the page to reset, got %d", m3.posts.query.Page)
	}
	if cmd == nil {
		t.Fatalf("expected a fetch")
	}
}

func TestPostsSearch_EscRestoresCommittedQuery(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	m.view = viewPosts
	m.posts.query.Q = "go"
	m.posts.searching = true
	m.posts.search.SetValue("goose")

	mm, cmd := m.updatePosts(tea.KeyMsg{Type: tea.KeyEsc})
	m2 := mm.(appModel)

	if cmd != nil {
		t.Fatalf("expected no fetch on cancel")
	}
	if m2.posts.searching {
		t.Fatalf("expected the search input to close")
	}
	if m2.posts.search.Value() != "go" {
		t.Fatalf("expected the input reset to the committed query, got %q", m2.posts.search.Value())
	}
}

func TestPostsKeys_ClearResetsFiltersButKeepsSort(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	m.view = viewPosts
	s := model.StatusPublic
	m.posts.query = api.PostQuery{Q: "go", GroupID: 7, Status: &s, Sort: "created_asc", Page: 3}
	m.posts.scopeLabel = "group: Weekly"

	mm, cmd := m.updatePosts(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m2 := mm.(appModel)

	if cmd == nil {
		t.Fatalf("expected a refetch")
	}
	q := m2.posts.query
	if q.Q != "" || q.GroupID != 0 || q.Status != nil || q.Page != 1 {
		t.Fatalf("expected filters cleared, got %+v", q)
	}
	if q.Sort != "created_asc" {
		t.Fatalf("expected the sort order to survive, got %q", q.Sort)
	}
	if m2.posts.scopeLabel != "" {
		t.Fatalf("expected the scope label to clear")
	}
}
