package cli

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPostsExport_SinglePostWritesFile(t *testing.T) {
	t.Setenv("CURATOR_CONFIG_DIR", t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/api/posts/5" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":5,"title":"Hello World","content":"Body.","status":0,"category_id":1,"category_name":"Notes","created_at":"2026-03-14T09:30:00Z"}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	env := mustRunJSON(t, []string{"--server", srv.URL, "posts", "export", "--id", "5", "--to", dir})

	data := dataMap(t, env)
	written, ok := data["written"].([]any)
	if !ok || len(written) != 1 {
		t.Fatalf("data.written = %#v", data["written"])
	}
	b, err := os.ReadFile(filepath.Join(dir, "posts", "5-hello-world.md"))
	if err != nil {
		t.Fatalf("exported file: %v", err)
	}
	md := string(b)
	for _, want := range []string{"# Hello World", "- Status: public", "- Category: Notes (1)", "Body."} {
		if !strings.Contains(md, want) {
			t.Errorf("exported markdown missing %q:\n%s", want, md)
		}
	}
}

func TestPostsExport_AllWalksFeedAndWritesIndex(t *testing.T) {
	t.Setenv("CURATOR_CONFIG_DIR", t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin/api/posts":
			_, _ = w.Write([]byte(`{"posts":[{"id":1,"title":"One","status":0,"created_at":"2026-01-01T00:00:00Z"},{"id":2,"title":"Two","status":1,"created_at":"2026-01-02T00:00:00Z"}],"page":1,"pages":1,"total":2}`))
		case "/admin/api/posts/1":
			_, _ = w.Write([]byte(`{"id":1,"title":"One","content":"First.","status":0,"created_at":"2026-01-01T00:00:00Z"}`))
		case "/admin/api/posts/2":
			_, _ = w.Write([]byte(`{"id":2,"title":"Two","content":"Second.","status":1,"created_at":"2026-01-02T00:00:00Z"}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	env := mustRunJSON(t, []string{"--server", srv.URL, "posts", "export", "--all", "--to", dir})

	data := dataMap(t, env)
	written, ok := data["written"].([]any)
	if !ok || len(written) != 3 {
		t.Fatalf("data.written = %#v", data["written"])
	}
	b, err := os.ReadFile(filepath.Join(dir, "index.md"))
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	index := string(b)
	if !strings.Contains(index, "(posts/1-one.md)") || !strings.Contains(index, "(posts/2-two.md)") {
		t.Fatalf("index content:\n%s", index)
	}
	if _, err := os.Stat(filepath.Join(dir, "posts", "2-two.md")); err != nil {
		t.Fatalf("page file: %v", err)
	}
}

func TestPostsExport_RequiresExactlyOneTarget(t *testing.T) {
	t.Setenv("CURATOR_CONFIG_DIR", t.TempDir())

	_, stderr, err := runCLI(t, []string{"posts", "export", "--to", t.TempDir()})
	if err == nil || !strings.Contains(string(stderr), "exactly one of --id or --all") {
		t.Fatalf("err = %v, stderr = %q", err, string(stderr))
	}

	_, stderr, err = runCLI(t, []string{"posts", "export", "--id", "5", "--all", "--to", t.TempDir()})
	if err == nil || !strings.Contains(string(stderr), "exactly one of --id or --all") {
		t.Fatalf("err = %v, stderr = %q", err, string(stderr))
	}
}
