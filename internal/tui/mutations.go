package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"curator-cli/internal/api"
	"curator-cli/internal/model"
)

// Mutation commands. Every round trip is journaled best-effort; a broken
// journal must never block the mutation itself.

func (m appModel) taxonomyMutationCmd(op mutationOp, col columnKind, id int64, name string, call func(context.Context) error) tea.Cmd {
	j, server := m.journal, m.client.BaseURL
	kind := col.entityKind()
	return func() tea.Msg {
		ctx := context.Background()
		err := call(ctx)
		detail := map[string]any{}
		if name != "" {
			detail["name"] = name
		}
		_ = j.Record(ctx, server, kind+"."+opName(op), kind, id, detail, err)
		return mutationDoneMsg{op: op, column: col, entityID: id, name: name, err: err}
	}
}

func opName(op mutationOp) string {
	switch op {
	case opCreate:
		return "create"
	case opRename:
		return "rename"
	default:
		return "delete"
	}
}

func (m appModel) createRowCmd(col columnKind, name string) tea.Cmd {
	c := m.client
	switch col {
	case columnCategories:
		return m.taxonomyMutationCmd(opCreate, col, 0, name, func(ctx context.Context) error {
			return c.CreateCategory(ctx, name, "", "")
		})
	case columnTopics:
		cat, ok := m.sel.Category()
		if !ok {
			return nil
		}
		return m.taxonomyMutationCmd(opCreate, col, 0, name, func(ctx context.Context) error {
			return c.CreateTopic(ctx, cat.ID, name)
		})
	default:
		t, ok := m.sel.Topic()
		if !ok {
			return nil
		}
		return m.taxonomyMutationCmd(opCreate, col, 0, name, func(ctx context.Context) error {
			return c.CreateGroup(ctx, t.ID, name)
		})
	}
}

func (m appModel) renameRowCmd(col columnKind, id int64, name string) tea.Cmd {
	c := m.client
	switch col {
	case columnCategories:
		return m.taxonomyMutationCmd(opRename, col, id, name, func(ctx context.Context) error {
			return c.RenameCategory(ctx, id, name)
		})
	case columnTopics:
		return m.taxonomyMutationCmd(opRename, col, id, name, func(ctx context.Context) error {
			return c.RenameTopic(ctx, id, name)
		})
	default:
		return m.taxonomyMutationCmd(opRename, col, id, name, func(ctx context.Context) error {
			return c.RenameGroup(ctx, id, name)
		})
	}
}

func (m appModel) deleteRowCmd(col columnKind, id int64) tea.Cmd {
	c := m.client
	switch col {
	case columnCategories:
		return m.taxonomyMutationCmd(opDelete, col, id, "", func(ctx context.Context) error {
			return c.DeleteCategory(ctx, id)
		})
	case columnTopics:
		return m.taxonomyMutationCmd(opDelete, col, id, "", func(ctx context.Context) error {
			return c.DeleteTopic(ctx, id)
		})
	default:
		return m.taxonomyMutationCmd(opDelete, col, id, "", func(ctx context.Context) error {
			return c.DeleteGroup(ctx, id)
		})
	}
}

// saveStatusCmd confirms an optimistic status change with the server.
func (m appModel) saveStatusCmd(postID int64, target, prior model.Status) tea.Cmd {
	c, j, server := m.client, m.journal, m.client.BaseURL
	return func() tea.Msg {
		ctx := context.Background()
		err := c.SetPostStatus(ctx, postID, target)
		_ = j.Record(ctx, server, "post.status", "post", postID,
			map[string]any{"status": target.String()}, err)
		return statusSavedMsg{postID: postID, target: target, prior: prior, err: err}
	}
}

func (m appModel) savePostCmd(editingID int64, draft api.PostDraft) tea.Cmd {
	c, j, server := m.client, m.journal, m.client.BaseURL
	return func() tea.Msg {
		ctx := context.Background()
		detail := map[string]any{"title": draft.Title, "publish": draft.Publish}
		if editingID == 0 {
			id, err := c.CreatePost(ctx, draft)
			_ = j.Record(ctx, server, "post.create", "post", id, detail, err)
			return postSavedMsg{id: id, created: true, err: err}
		}
		err := c.UpdatePost(ctx, editingID, draft)
		_ = j.Record(ctx, server, "post.edit", "post", editingID, detail, err)
		return postSavedMsg{id: editingID, err: err}
	}
}

func (m appModel) deletePostCmd(id int64) tea.Cmd {
	c, j, server := m.client, m.journal, m.client.BaseURL
	return func() tea.Msg {
		ctx := context.Background()
		err := c.DeletePost(ctx, id)
		_ = j.Record(ctx, server, "post.delete", "post", id, nil, err)
		return postDeletedMsg{id: id, err: err}
	}
}

func (m appModel) loadPostCmd(id int64) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		post, err := c.Post(context.Background(), id)
		return postLoadedMsg{post: post, err: err}
	}
}

// fetchPostsCmd issues the current query. Callers bump loadSeq first so that
// responses from superseded queries can be dropped.
func (m appModel) fetchPostsCmd(seq int) tea.Cmd {
	q := m.posts.query
	c := m.client
	return func() tea.Msg {
		page, err := c.Posts(context.Background(), q)
		return postsLoadedMsg{page: page, seq: seq, err: err}
	}
}

func (m *appModel) loadPostsCmd() tea.Cmd {
	m.posts.loading = true
	m.posts.loadSeq++
	return m.fetchPostsCmd(m.posts.loadSeq)
}
