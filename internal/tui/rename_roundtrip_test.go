package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"curator-cli/internal/api"
	"curator-cli/internal/model"
	"curator-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Full rename loop: enter on an editing row fires the request, the server
// answers, the completion message lands, and the round trip is journaled.
func TestRenameRoundTrip_SavesRowAndJournals(t *testing.T) {
	t.Setenv("CURATOR_CONFIG_DIR", t.TempDir())

	var gotPath string
	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotPath = r.URL.Path
		gotForm = r.PostForm
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	m := newAppModel(api.New(srv.URL, "sess"), store.Journal{}, nil)
	m.catalogLoaded = true
	m.catalog = model.Catalog{Categories: []model.Category{{ID: 4, Name: "Notes"}}}
	m.catRows = rowsFromCategories(m.catalog.Categories)
	m.catRows[0].BeginEdit()
	m.catRows[0].SetDraft("Notebook")
	(&m).syncRowInput()

	mm, cmd := m.updateTaxonomy(tea.KeyMsg{Type: tea.KeyEnter})
	m2 := mm.(appModel)
	if cmd == nil {
		t.Fatalf("expected a rename request")
	}
	if !m2.catRows[0].Pending() {
		t.Fatalf("expected the row pending while the rename is in flight")
	}

	msg := cmd()
	done, ok := msg.(mutationDoneMsg)
	if !ok {
		t.Fatalf("expected mutationDoneMsg, got %T", msg)
	}
	if done.err != nil {
		t.Fatalf("rename: %v", done.err)
	}
	if gotPath != "/admin/api/category_update" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotForm.Get("category_id") != "4" || gotForm.Get("name") != "Notebook" {
		t.Fatalf("form = %v", gotForm)
	}

	mm, _ = m2.Update(done)
	m3 := mm.(appModel)
	if m3.catRows[0].Name != "Notebook" || m3.catRows[0].Pending() {
		t.Fatalf("expected the row saved, got %#v", m3.catRows[0])
	}

	acts, err := (store.Journal{}).Actions(context.Background(), "category", 10)
	if err != nil {
		t.Fatalf("read journal: %v", err)
	}
	if len(acts) != 1 {
		t.Fatalf("expected one journal row, got %d", len(acts))
	}
	if acts[0].Op != "category.rename" || acts[0].EntityID != 4 || acts[0].Outcome != store.OutcomeOK {
		t.Fatalf("journal row = %+v", acts[0])
	}
}
