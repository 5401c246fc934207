package tui

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"curator-cli/internal/api"
	"curator-cli/internal/model"
	"curator-cli/internal/store"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func TestTogglePost_SameStatusIsNoOp(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	p := model.Post{ID: 5, Title: "A", Status: model.StatusPublic}

	if cmd := (&m).togglePost(p, model.StatusPublic); cmd != nil {
		t.Fatalf("expected no request when the post already has the target status")
	}
	if len(m.posts.togglePending) != 0 {
		t.Fatalf("expected nothing pending")
	}
}

func TestTogglePost_DraftRefusedWithHint(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	p := model.Post{ID: 5, Title: "A", Status: model.StatusDraft}

	if cmd := (&m).togglePost(p, model.StatusPublic); cmd != nil {
		t.Fatalf("expected drafts to be refused locally")
	}
	if m.minibufferText != "drafts are published from the editor" || !m.minibufferIsErr {
		t.Fatalf("expected the draft hint, got %q", m.minibufferText)
	}
}

func TestTogglePost_OptimisticApplyAndRevertOnError(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	p := model.Post{ID: 5, Title: "A", Status: model.StatusPublic}
	m.posts.list.SetItems([]list.Item{postItem{post: p}})

	cmd := (&m).togglePost(p, model.StatusPrivate)
	if cmd == nil {
		t.Fatalf("expected a confirmation request")
	}
	if prior, ok := m.posts.togglePending[5]; !ok || prior != model.StatusPublic {
		t.Fatalf("expected the prior status to be parked for a revert")
	}
	it := m.posts.list.Items()[0].(postItem)
	if it.post.Status != model.StatusPrivate {
		t.Fatalf("expected the optimistic status in the table, got %v", it.post.Status)
	}
	if !it.pending {
		t.Fatalf("expected the row marked pending")
	}

	mm, _ := m.Update(statusSavedMsg{
		postID: 5, target: model.StatusPrivate, prior: model.StatusPublic,
		err: errors.New("boom"),
	})
	m2 := mm.(appModel)

	it = m2.posts.list.Items()[0].(postItem)
	if it.post.Status != model.StatusPublic {
		t.Fatalf("expected a revert to the prior status, got %v", it.post.Status)
	}
	if it.pending {
		t.Fatalf("expected the pending marker to clear")
	}
	if _, ok := m2.posts.togglePending[5]; ok {
		t.Fatalf("expected the pending map entry to clear")
	}
}

func TestTogglePost_SecondToggleIgnoredWhilePending(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	p := model.Post{ID: 5, Title: "A", Status: model.StatusPublic}
	m.posts.list.SetItems([]list.Item{postItem{post: p}})

	if cmd := (&m).togglePost(p, model.StatusPrivate); cmd == nil {
		t.Fatalf("expected the first toggle to fire")
	}
	if cmd := (&m).togglePost(model.Post{ID: 5, Status: model.StatusPrivate}, model.StatusPublic); cmd != nil {
		t.Fatalf("expected the in-flight change to block further toggles")
	}
}

func TestStatusToggle_RoundTripConfirmsWithServer(t *testing.T) {
	t.Setenv("CURATOR_CONFIG_DIR", t.TempDir())

	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	m := newAppModel(api.New(srv.URL, ""), store.Journal{}, nil)
	m.view = viewPosts
	m.posts.list.SetItems([]list.Item{
		postItem{post: model.Post{ID: 5, Title: "A", Status: model.StatusPrivate}},
	})

	mm, cmd := m.updatePosts(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m2 := mm.(appModel)
	if cmd == nil {
		t.Fatalf("expected a status request")
	}

	msg := cmd()
	saved, ok := msg.(statusSavedMsg)
	if !ok {
		t.Fatalf("expected statusSavedMsg, got %T", msg)
	}
	if saved.err != nil {
		t.Fatalf("status save: %v", saved.err)
	}
	if gotPath != "/admin/api/posts/5/status" {
		t.Fatalf("path = %q", gotPath)
	}
	if !strings.Contains(gotBody, `"public"`) {
		t.Fatalf("body = %q, want the public target", gotBody)
	}

	mm, _ = m2.Update(saved)
	m3 := mm.(appModel)

	it := m3.posts.list.Items()[0].(postItem)
	if it.post.Status != model.StatusPublic || it.pending {
		t.Fatalf("expected the confirmed status to stick, got %v (pending=%v)", it.post.Status, it.pending)
	}
	if m3.minibufferText != "post is now public" {
		t.Fatalf("expected the confirmation notice, got %q", m3.minibufferText)
	}
}

func TestStatusSaved_SyncsOpenDetailView(t *testing.T) {
	m := newAppModel(api.New("http://127.0.0.1:1", ""), store.Journal{}, nil)
	p := model.Post{ID: 5, Title: "A", Status: model.StatusPublic}
	m.openPostID = 5
	m.openPost = &p
	m.posts.togglePending[5] = model.StatusPublic

	mm, _ := m.Update(statusSavedMsg{postID: 5, target: model.StatusPrivate, prior: model.StatusPublic})
	m2 := mm.(appModel)

	if m2.openPost.Status != model.StatusPrivate {
		t.Fatalf("expected the detail copy to follow the confirmation, got %v", m2.openPost.Status)
	}
}
