// Package docs serves the documentation topics compiled into the binary, so
// `curator docs` works offline and always matches the installed version.
package docs

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed content/*.md
var contentFS embed.FS

// Topics lists the available topic names, sorted.
func Topics() []string {
	entries, err := fs.Glob(contentFS, "content/*.md")
	if err != nil {
		return nil
	}
	topics := make([]string, 0, len(entries))
	for _, path := range entries {
		name := strings.TrimSuffix(strings.TrimPrefix(path, "content/"), ".md")
		if name != "" {
			topics = append(topics, name)
		}
	}
	sort.Strings(topics)
	return topics
}

// Get returns the markdown body for a topic. Matching ignores case so
// `curator docs TUI` finds tui.md.
func Get(topic string) (string, bool) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", false
	}
	for _, name := range Topics() {
		if !strings.EqualFold(name, topic) {
			continue
		}
		b, err := contentFS.ReadFile("content/" + name + ".md")
		if err != nil {
			return "", false
		}
		return string(b), true
	}
	return "", false
}
