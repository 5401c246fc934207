// Package export writes posts to disk as standalone markdown documents.
// Exports are derived artifacts for backups and offline editing; the server
// stays the source of truth.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"curator-cli/internal/model"
)

type WriteOptions struct {
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WritePost renders p and writes it under toDir/posts/.
func WritePost(p model.Post, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	outDir := filepath.Join(filepath.Clean(toDir), "posts")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(outDir, FileName(p))
	if err := writeFile(outPath, []byte(RenderPostMarkdown(p)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

// WriteAll writes an index.md plus one page per post under toDir. The posts
// must already carry their content; the list feed omits it.
func WriteAll(posts []model.Post, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)
	outDir := filepath.Join(toDir, "posts")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	indexPath := filepath.Join(toDir, "index.md")
	if err := writeFile(indexPath, []byte(RenderIndexMarkdown(posts)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	written := []string{indexPath}
	for _, p := range posts {
		outPath := filepath.Join(outDir, FileName(p))
		if err := writeFile(outPath, []byte(RenderPostMarkdown(p)), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, outPath)
	}
	return WriteResult{Written: written}, nil
}

// RenderPostMarkdown renders one post: title heading, a meta section, then
// the content unchanged.
func RenderPostMarkdown(p model.Post) string {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteString("\n")
	}

	line("# " + strings.TrimSpace(p.Title))
	line("")
	line("## Meta")
	line("")
	line(fmt.Sprintf("- ID: %d", p.ID))
	line("- Status: " + p.Status.String())
	for _, l := range []string{
		levelLine("Category", p.CategoryID, p.CategoryName),
		levelLine("Topic", p.TopicID, p.TopicName),
		levelLine("Group", p.GroupID, p.GroupName),
	} {
		if l != "" {
			line(l)
		}
	}
	line("- Created: " + p.CreatedAt.UTC().Format(time.RFC3339))
	if p.UpdatedAt != nil {
		line("- Updated: " + p.UpdatedAt.UTC().Format(time.RFC3339))
	}

	if content := strings.TrimSpace(p.Content); content != "" {
		line("")
		line("## Content")
		line("")
		line(content)
	}
	return b.String()
}

// RenderIndexMarkdown renders the table of contents for an export run,
// linking each post page relative to the index.
func RenderIndexMarkdown(posts []model.Post) string {
	var b strings.Builder
	b.WriteString("# Posts\n\n")
	if len(posts) == 0 {
		b.WriteString("No posts.\n")
		return b.String()
	}
	for _, p := range posts {
		b.WriteString(fmt.Sprintf("- [%s](posts/%s) (%s, %s)\n",
			strings.TrimSpace(p.Title), FileName(p),
			p.Status.String(), p.CreatedAt.UTC().Format("2006-01-02")))
	}
	return b.String()
}

// FileName is "<id>-<slug>.md", or "<id>.md" when the title has no usable
// characters. The id prefix keeps names unique; the slug keeps them readable.
func FileName(p model.Post) string {
	if s := slugify(p.Title); s != "" {
		return fmt.Sprintf("%d-%s.md", p.ID, s)
	}
	return fmt.Sprintf("%d.md", p.ID)
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	pendingDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	slug := b.String()
	if len(slug) > 60 {
		slug = strings.TrimRight(slug[:60], "-")
	}
	return slug
}

func levelLine(label string, id *int64, name string) string {
	name = strings.TrimSpace(name)
	switch {
	case id != nil && name != "":
		return fmt.Sprintf("- %s: %s (%d)", label, name, *id)
	case id != nil:
		return fmt.Sprintf("- %s: %d", label, *id)
	case name != "":
		return "- " + label + ": " + name
	}
	return ""
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
