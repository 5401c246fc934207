package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"curator-cli/internal/api"
	"curator-cli/internal/export"
	"curator-cli/internal/model"

	"github.com/spf13/cobra"
)

func newPostsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Post commands",
	}
	cmd.AddCommand(newPostsListCmd(app))
	cmd.AddCommand(newPostsShowCmd(app))
	cmd.AddCommand(newPostsCreateCmd(app))
	cmd.AddCommand(newPostsEditCmd(app))
	cmd.AddCommand(newPostsDeleteCmd(app))
	cmd.AddCommand(newPostsStatusCmd(app, "publish", model.StatusPublic))
	cmd.AddCommand(newPostsStatusCmd(app, "unpublish", model.StatusPrivate))
	cmd.AddCommand(newPostsExportCmd(app))
	return cmd
}

func newPostsListCmd(app *App) *cobra.Command {
	var q, status, sort string
	var categoryID, topicID, groupID int64
	var page, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts (newest first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			query := api.PostQuery{
				Q:          strings.TrimSpace(q),
				CategoryID: categoryID,
				TopicID:    topicID,
				GroupID:    groupID,
				Sort:       sort,
				Page:       page,
				Limit:      limit,
			}
			if status != "" {
				st, err := model.ParseStatus(status)
				if err != nil {
					return writeErr(cmd, err)
				}
				query.Status = &st
			}
			if sort != "" && sort != "created_desc" && sort != "created_asc" {
				return writeErr(cmd, fmt.Errorf("sort must be created_desc or created_asc, got %q", sort))
			}

			pageOut, err := client.Posts(cmd.Context(), query)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": pageOut})
		},
	}

	cmd.Flags().StringVar(&q, "q", "", "Search in title and content")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "Filter by category id")
	cmd.Flags().Int64Var(&topicID, "topic", 0, "Filter by topic id")
	cmd.Flags().Int64Var(&groupID, "group", 0, "Filter by group id")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (public|private|draft)")
	cmd.Flags().StringVar(&sort, "sort", "", "Sort order (created_desc|created_asc)")
	cmd.Flags().IntVar(&page, "page", 0, "Page number (1-based)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size")
	return cmd
}

func newPostsShowCmd(app *App) *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one post including its content",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := client.Post(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Post id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newPostsCreateCmd(app *App) *cobra.Command {
	var title, content, contentFile string
	var publish bool
	var categoryID, topicID, groupID int64
	var newCategory, newTopic, newGroup string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			title = strings.TrimSpace(title)
			if title == "" {
				return writeErr(cmd, errors.New("--title must not be blank"))
			}
			body, err := resolveContent(cmd, content, contentFile)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := checkTaxonomyFlags(categoryID, newCategory, topicID, newTopic, groupID, newGroup); err != nil {
				return writeErr(cmd, err)
			}

			d := api.PostDraft{Title: title, Content: body, Publish: publish}
			d.CategoryMode, d.CategoryID, d.NewCategoryName = levelFields(categoryID, newCategory)
			d.TopicMode, d.TopicID, d.NewTopicName = levelFields(topicID, newTopic)
			d.GroupMode, d.GroupID, d.NewGroupName = levelFields(groupID, newGroup)

			ctx := cmd.Context()
			id, err := client.CreatePost(ctx, d)
			journalRecord(ctx, client, "post.create", "post", id,
				map[string]any{"title": title, "publish": publish}, err)
			if err != nil {
				return writeErr(cmd, err)
			}

			p, err := client.Post(ctx, id)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := map[string]any{"data": p}
			if p.Status != model.StatusPublic {
				out["_hints"] = []string{
					fmt.Sprintf("curator posts publish --id %d", p.ID),
				}
			}
			return writeOut(cmd, app, out)
		},
	}

	addPostDraftFlags(cmd, &title, &content, &contentFile, &publish,
		&categoryID, &newCategory, &topicID, &newTopic, &groupID, &newGroup)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newPostsEditCmd(app *App) *cobra.Command {
	var id int64
	var title, content, contentFile string
	var publish bool
	var categoryID, topicID, groupID int64
	var newCategory, newTopic, newGroup string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a post (unset flags keep their current values)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()

			p, err := client.Post(ctx, id)
			if err != nil {
				return writeErr(cmd, err)
			}

			d := api.PostDraft{
				Title:        p.Title,
				Content:      p.Content,
				Publish:      p.Status == model.StatusPublic,
				CategoryMode: api.ModeExisting,
				TopicMode:    api.ModeExisting,
				GroupMode:    api.ModeExisting,
			}
			if p.CategoryID != nil {
				d.CategoryID = *p.CategoryID
			}
			if p.TopicID != nil {
				d.TopicID = *p.TopicID
			}
			if p.GroupID != nil {
				d.GroupID = *p.GroupID
			}

			f := cmd.Flags()
			if f.Changed("title") {
				title = strings.TrimSpace(title)
				if title == "" {
					return writeErr(cmd, errors.New("--title must not be blank"))
				}
				d.Title = title
			}
			if f.Changed("content") || f.Changed("content-file") {
				body, err := resolveContent(cmd, content, contentFile)
				if err != nil {
					return writeErr(cmd, err)
				}
				d.Content = body
			}
			if f.Changed("publish") {
				d.Publish = publish
			}
			if err := checkTaxonomyFlags(categoryID, newCategory, topicID, newTopic, groupID, newGroup); err != nil {
				return writeErr(cmd, err)
			}

			// Replacing a level resets the ones below it unless they were
			// passed too: the old topic belongs to the old category.
			catTouched := f.Changed("category-id") || f.Changed("new-category")
			topicTouched := f.Changed("topic-id") || f.Changed("new-topic")
			groupTouched := f.Changed("group-id") || f.Changed("new-group")
			if catTouched && !topicTouched {
				topicID, newTopic, topicTouched = 0, "", true
			}
			if topicTouched && !groupTouched {
				groupID, newGroup, groupTouched = 0, "", true
			}
			if catTouched {
				d.CategoryMode, d.CategoryID, d.NewCategoryName = levelFields(categoryID, newCategory)
			}
			if topicTouched {
				d.TopicMode, d.TopicID, d.NewTopicName = levelFields(topicID, newTopic)
			}
			if groupTouched {
				d.GroupMode, d.GroupID, d.NewGroupName = levelFields(groupID, newGroup)
			}

			err = client.UpdatePost(ctx, id, d)
			journalRecord(ctx, client, "post.edit", "post", id,
				map[string]any{"title": d.Title}, err)
			if err != nil {
				return writeErr(cmd, err)
			}

			updated, err := client.Post(ctx, id)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := map[string]any{"data": updated}
			// The server parks every edited post in draft.
			if updated.Status == model.StatusDraft {
				out["_hints"] = []string{
					fmt.Sprintf("curator posts publish --id %d", id),
				}
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Post id")
	addPostDraftFlags(cmd, &title, &content, &contentFile, &publish,
		&categoryID, &newCategory, &topicID, &newTopic, &groupID, &newGroup)
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newPostsDeleteCmd(app *App) *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()

			err = client.DeletePost(ctx, id)
			journalRecord(ctx, client, "post.delete", "post", id, nil, err)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"id": id, "deleted": true},
			})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Post id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newPostsStatusCmd(app *App, use string, target model.Status) *cobra.Command {
	var id int64

	short := "Set a post public"
	if target == model.StatusPrivate {
		short = "Set a post private"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()

			err = client.SetPostStatus(ctx, id, target)
			journalRecord(ctx, client, "post.status", "post", id,
				map[string]any{"status": target.String()}, err)
			if err != nil {
				return writeErr(cmd, err)
			}

			p, err := client.Post(ctx, id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Post id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newPostsExportCmd(app *App) *cobra.Command {
	var id int64
	var all bool
	var toDir string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write posts to disk as markdown files (derived, not canonical)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (id > 0) == all {
				return writeErr(cmd, errors.New("pass exactly one of --id or --all"))
			}
			client, _, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()
			opt := export.WriteOptions{Overwrite: overwrite}

			if id > 0 {
				p, err := client.Post(ctx, id)
				if err != nil {
					return writeErr(cmd, err)
				}
				res, err := export.WritePost(p, toDir, opt)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": res})
			}

			// Walk the feed page by page, then refetch each post for its
			// content (the list payload omits it).
			var posts []model.Post
			for page := 1; ; page++ {
				pageOut, err := client.Posts(ctx, api.PostQuery{Page: page, Limit: 100})
				if err != nil {
					return writeErr(cmd, err)
				}
				for _, row := range pageOut.Posts {
					full, err := client.Post(ctx, row.ID)
					if err != nil {
						return writeErr(cmd, err)
					}
					posts = append(posts, full)
				}
				if len(pageOut.Posts) == 0 || page >= pageOut.Pages {
					break
				}
			}
			res, err := export.WriteAll(posts, toDir, opt)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Export one post by id")
	cmd.Flags().BoolVar(&all, "all", false, "Export every post")
	cmd.Flags().StringVar(&toDir, "to", "", "Output directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", true, "Overwrite existing files")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func addPostDraftFlags(cmd *cobra.Command, title, content, contentFile *string, publish *bool,
	categoryID *int64, newCategory *string, topicID *int64, newTopic *string, groupID *int64, newGroup *string) {
	cmd.Flags().StringVar(title, "title", "", "Post title")
	cmd.Flags().StringVar(content, "content", "", "Markdown content")
	cmd.Flags().StringVar(contentFile, "content-file", "", "Read markdown content from a file (- for stdin)")
	cmd.Flags().BoolVar(publish, "publish", false, "Publish instead of saving as draft")
	cmd.Flags().Int64Var(categoryID, "category-id", 0, "Existing category id")
	cmd.Flags().StringVar(newCategory, "new-category", "", "Create a category with this name")
	cmd.Flags().Int64Var(topicID, "topic-id", 0, "Existing topic id")
	cmd.Flags().StringVar(newTopic, "new-topic", "", "Create a topic with this name")
	cmd.Flags().Int64Var(groupID, "group-id", 0, "Existing group id")
	cmd.Flags().StringVar(newGroup, "new-group", "", "Create a group with this name")
}

func resolveContent(cmd *cobra.Command, content, contentFile string) (string, error) {
	f := cmd.Flags()
	if f.Changed("content") && f.Changed("content-file") {
		return "", errors.New("--content and --content-file are mutually exclusive")
	}
	if contentFile == "" {
		return content, nil
	}
	if contentFile == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(contentFile)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// checkTaxonomyFlags rejects contradictory level pairs. A new category cannot
// keep an existing topic (the server would drop it), same for topic/group.
func checkTaxonomyFlags(categoryID int64, newCategory string, topicID int64, newTopic string, groupID int64, newGroup string) error {
	if categoryID > 0 && newCategory != "" {
		return errors.New("--category-id and --new-category are mutually exclusive")
	}
	if topicID > 0 && newTopic != "" {
		return errors.New("--topic-id and --new-topic are mutually exclusive")
	}
	if groupID > 0 && newGroup != "" {
		return errors.New("--group-id and --new-group are mutually exclusive")
	}
	if newCategory != "" && topicID > 0 {
		return errors.New("--topic-id cannot be used with --new-category (pass --new-topic instead)")
	}
	if newTopic != "" && groupID > 0 {
		return errors.New("--group-id cannot be used with --new-topic (pass --new-group instead)")
	}
	return nil
}

func levelFields(id int64, newName string) (mode string, outID int64, outName string) {
	newName = strings.TrimSpace(newName)
	if newName != "" {
		return api.ModeNew, 0, newName
	}
	return api.ModeExisting, id, ""
}
