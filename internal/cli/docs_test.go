package cli

import (
	"strings"
	"testing"
)

func TestDocs_ListsTopics(t *testing.T) {
	t.Setenv("CURATOR_CONFIG_DIR", t.TempDir())

	env := mustRunJSON(t, []string{"docs"})
	data := dataMap(t, env)
	topics, ok := data["topics"].([]any)
	if !ok || len(topics) == 0 {
		t.Fatalf("data.topics = %#v", data["topics"])
	}
	found := false
	for _, v := range topics {
		if v == "tui" {
			found = true
		}
	}
	if !found {
		t.Fatalf("topics %v missing tui", topics)
	}
}

func TestDocs_RawPrintsMarkdown(t *testing.T) {
	t.Setenv("CURATOR_CONFIG_DIR", t.TempDir())

	stdout, stderr, err := runCLI(t, []string{"docs", "statuses", "--raw"})
	if err != nil {
		t.Fatalf("err = %v, stderr = %q", err, string(stderr))
	}
	if !strings.HasPrefix(string(stdout), "# Post statuses") {
		t.Fatalf("stdout does not start with the topic heading: %q", string(stdout[:min(40, len(stdout))]))
	}
}

func TestDocs_UnknownTopicFails(t *testing.T) {
	t.Setenv("CURATOR_CONFIG_DIR", t.TempDir())

	_, stderr, err := runCLI(t, []string{"docs", "nope"})
	if err == nil || !strings.Contains(string(stderr), "unknown docs topic") {
		t.Fatalf("err = %v, stderr = %q", err, string(stderr))
	}
}
